//go:build !(windows && amd64)

package native

// Call is unavailable: 32-bit member calls need the receiver in ECX, which
// syscall.SyscallN cannot set, and other systems have no backend yet.
// TODO: a 386 thiscall trampoline in assembly loading ECX would enable windows/386.
func (process) Call(fn uintptr, args ...uintptr) Result {
	panic(ErrUnsupported)
}
