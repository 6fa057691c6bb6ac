package engineapi

import (
	"github.com/ZenLiuCN/engineapi/memory"
	"github.com/ZenLiuCN/engineapi/native"
)

// Resolve finds sig in img and returns the absolute member function it marks,
// typed with shape.
//
// The first match is trusted: nothing checks that the bytes found really are
// the intended prologue rather than a coincidental run elsewhere in the module.
// After a host update a stale pattern can therefore bind the wrong code; only a
// missing match is reported.
func Resolve(img *memory.Image, sig Signature, shape native.Shape) (f native.Func, err error) {
	if err = sig.Pattern.Fits(img.Data); err != nil {
		err = &SignatureNotFoundError{Symbol: sig.Method, Module: img.Name, Err: err}
		return
	}
	off, ok := sig.Pattern.Find(img.Data)
	if !ok {
		err = &SignatureNotFoundError{Symbol: sig.Method, Module: img.Name}
		return
	}
	var addr uintptr
	if addr, err = img.Address(off); err != nil {
		err = &SignatureNotFoundError{Symbol: sig.Method, Module: img.Name, Err: err}
		return
	}
	f = native.Func{
		Name:  sig.Method,
		Addr:  addr,
		Conv:  native.MemberCall,
		Shape: shape,
	}
	return
}
