// Package native is the boundary to code living in the host process: it
// locates interface instances and calls member functions through resolved
// addresses.
//
// Raw addresses never leave this package bare: a callable address is always a
// Func, which carries the calling convention and the argument/return shape the
// caller declared for it.
package native

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type (
	// Convention is how the receiver and arguments reach the callee.
	Convention uint8
	// Kind is the declared type of one native argument or return value.
	Kind uint8
	// Shape is a declared native signature.
	Shape struct {
		Args []Kind
		Ret  Kind
	}
	// Func is a resolved function: an absolute address and its calling contract.
	Func struct {
		Name  string
		Addr  uintptr
		Conv  Convention
		Shape Shape
	}
	// Result holds the raw return registers of a native call.
	// R1 is the integer return register, R2 the floating point one.
	Result struct {
		R1, R2 uintptr
	}
	// Invoker performs native calls into the host process.
	Invoker interface {
		Call(fn uintptr, args ...uintptr) Result
	}
	// Locator obtains the instance address of a named interface exposed by a module.
	Locator interface {
		Interface(module, version string) (uintptr, error)
	}
	// InterfaceNotFoundError names the interface that could not be located.
	InterfaceNotFoundError struct {
		Module  string
		Version string
		Err     error // optional cause
	}
)

const (
	// MemberCall passes the receiver ("this") as the first native argument.
	MemberCall Convention = iota
	// Plain passes only the declared arguments.
	Plain
)

const (
	Void Kind = iota
	Bool
	Int32
	Float32
	Pointer
	String // pointer to a NUL terminated byte string
)

// FactoryExport is the exported symbol every interface providing module carries.
const FactoryExport = "CreateInterface"

var (
	// ErrInterfaceNotFound is matched by every InterfaceNotFoundError.
	ErrInterfaceNotFound = errors.New("interface not found")
	// ErrUnsupported occurs when the platform cannot locate interfaces or call native code.
	ErrUnsupported = errors.New("native calls unsupported on this platform")
	// ErrArity occurs when a call passes a different number of arguments than declared.
	ErrArity = errors.New("argument count mismatch")
	// ErrNilFunc occurs when calling a Func without an address.
	ErrNilFunc = errors.New("nil function address")
)

func (e *InterfaceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interface not found: %s in %s: %v", e.Version, e.Module, e.Err)
	}
	return fmt.Sprintf("interface not found: %s in %s", e.Version, e.Module)
}

func (e *InterfaceNotFoundError) Is(target error) bool {
	return target == ErrInterfaceNotFound
}

func (e *InterfaceNotFoundError) Unwrap() error {
	return e.Err
}

var kindNames = [...]string{"void", "bool", "int32", "float32", "ptr", "str"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (c Convention) String() string {
	switch c {
	case MemberCall:
		return "member"
	case Plain:
		return "plain"
	default:
		return fmt.Sprintf("convention(%d)", c)
	}
}

// Sig builds a Shape returning ret.
func Sig(ret Kind, args ...Kind) Shape {
	return Shape{Args: args, Ret: ret}
}

func (s Shape) String() string {
	b := strings.Builder{}
	b.WriteString(s.Ret.String())
	b.WriteByte('(')
	for i, a := range s.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (f Func) String() string {
	return fmt.Sprintf("%s %s@%#x %s", f.Conv, f.Name, f.Addr, f.Shape)
}

// Call invokes f through inv. For MemberCall the receiver this is passed as the
// first native argument. Passing a different number of args than the Shape
// declares panics with ErrArity: the caller's binding is wrong, not the host.
func (f Func) Call(inv Invoker, this uintptr, args ...uintptr) Result {
	if f.Addr == 0 {
		panic(fmt.Errorf("%w: %s", ErrNilFunc, f.Name))
	}
	if len(args) != len(f.Shape.Args) {
		panic(fmt.Errorf("%w: %s declares %d, got %d", ErrArity, f.Name, len(f.Shape.Args), len(args)))
	}
	if f.Conv == MemberCall {
		full := make([]uintptr, 0, len(args)+1)
		full = append(full, this)
		full = append(full, args...)
		return inv.Call(f.Addr, full...)
	}
	return inv.Call(f.Addr, args...)
}

// Bool decodes a native bool: only the low byte of the register is defined.
func (r Result) Bool() bool {
	return byte(r.R1) != 0
}

func (r Result) Int32() int32 {
	return int32(uint32(r.R1))
}

// Float32 decodes a float returned in the floating point register.
func (r Result) Float32() float32 {
	return math.Float32frombits(uint32(r.R2))
}

func (r Result) Pointer() uintptr {
	return r.R1
}

// Text reads the NUL terminated string the result points to, "" for nil.
func (r Result) Text() string {
	return GoString(r.R1)
}
