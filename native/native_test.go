package native

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	fn   uintptr
	args []uintptr
	ret  Result
}

func (r *recorder) Call(fn uintptr, args ...uintptr) Result {
	r.fn = fn
	r.args = append([]uintptr(nil), args...)
	return r.ret
}

func TestMemberCallPassesReceiverFirst(t *testing.T) {
	rec := &recorder{ret: Result{R1: 1}}
	f := Func{Name: "SetMouseCapture", Addr: 0x7ff0001000, Conv: MemberCall, Shape: Sig(Void, Pointer, Bool)}
	f.Call(rec, 0xABCD, 0x10, BoolArg(true))
	assert.Equal(t, uintptr(0x7ff0001000), rec.fn)
	assert.Equal(t, []uintptr{0xABCD, 0x10, 1}, rec.args)

	p := Func{Name: "CreateInterface", Addr: 0x1000, Conv: Plain, Shape: Sig(Pointer, String, Pointer)}
	p.Call(rec, 0xABCD, 0x20, 0)
	assert.Equal(t, []uintptr{0x20, 0}, rec.args)
}

func TestCallContract(t *testing.T) {
	rec := &recorder{}
	f := Func{Name: "IsInGame", Addr: 0x1000, Shape: Sig(Bool)}
	assert.PanicsWithError(t, "argument count mismatch: IsInGame declares 0, got 1", func() {
		f.Call(rec, 1, 2)
	})
	assert.Panics(t, func() { Func{Name: "nil"}.Call(rec, 1) })
	assert.Equal(t, "member IsInGame@0x1000 bool()", f.String())
	assert.Equal(t, "void(ptr, int32, int32)", Sig(Void, Pointer, Int32, Int32).String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestResultDecoding(t *testing.T) {
	assert.True(t, Result{R1: 0x01}.Bool())
	assert.False(t, Result{R1: 0xFFFFFF00}.Bool())
	assert.Equal(t, int32(-1), Result{R1: 0xFFFFFFFF}.Int32())
	assert.Equal(t, int32(64), Result{R1: 0xDEAD00000040}.Int32())
	assert.Equal(t, float32(1.5), Result{R2: uintptr(math.Float32bits(1.5))}.Float32())
	assert.Equal(t, uintptr(0x1234), Result{R1: 0x1234}.Pointer())
	assert.Equal(t, "", Result{}.Text())
	assert.Equal(t, ^uintptr(0), Int32Arg(-1))
	assert.Equal(t, uintptr(0), BoolArg(false))
}

func TestCStringRoundTrip(t *testing.T) {
	var pin runtime.Pinner
	defer pin.Unpin()
	a := CString(&pin, "sv_cheats 1")
	assert.Equal(t, "sv_cheats 1", GoString(a))
	assert.Equal(t, "sv_cheats 1", Result{R1: a}.Text())
	assert.Equal(t, "", GoString(CString(&pin, "")))
}

func TestRefAt(t *testing.T) {
	type vec struct{ X, Y, Z float32 }
	var pin runtime.Pinner
	defer pin.Unpin()
	v := &vec{1, 2, 3}
	a := Ref(&pin, v)
	w := At[vec](a)
	w.Y = 20
	assert.Equal(t, float32(20), v.Y)
}

func TestInterfaceNotFoundError(t *testing.T) {
	var err error = &InterfaceNotFoundError{Module: "engine.dll", Version: "VEngineClient015"}
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
	assert.EqualError(t, err, "interface not found: VEngineClient015 in engine.dll")
	var nf *InterfaceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "VEngineClient015", nf.Version)
	err = &InterfaceNotFoundError{Module: "a", Version: "b", Err: ErrUnsupported}
	assert.ErrorIs(t, err, ErrUnsupported)
}
