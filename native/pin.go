package native

import (
	"runtime"
	"unsafe"
)

// CString copies s into a NUL terminated buffer pinned by p and returns its address.
// The address stays valid until p.Unpin.
func CString(p *runtime.Pinner, s string) uintptr {
	b := make([]byte, len(s)+1)
	copy(b, s)
	p.Pin(&b[0])
	return uintptr(unsafe.Pointer(&b[0]))
}

// Ref pins v with p and returns its address, used for native out parameters.
func Ref[T any](p *runtime.Pinner, v *T) uintptr {
	p.Pin(v)
	return uintptr(unsafe.Pointer(v))
}

// BoolArg encodes a native bool argument.
func BoolArg(v bool) uintptr {
	if v {
		return 1
	}
	return 0
}

// Int32Arg sign extends a native int argument.
func Int32Arg(v int32) uintptr {
	return uintptr(v)
}

// GoString copies the NUL terminated byte string at addr. addr must point to
// memory owned by the host process.
func GoString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	p := *(*unsafe.Pointer)(unsafe.Pointer(&addr))
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// At reinterprets addr as a pointer to T. addr must point to host memory laid out as T.
func At[T any](addr uintptr) *T {
	return (*T)(*(*unsafe.Pointer)(unsafe.Pointer(&addr)))
}
