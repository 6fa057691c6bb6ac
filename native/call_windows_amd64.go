//go:build windows && amd64

package native

import "syscall"

// Call uses the x64 convention: the first four integer arguments in
// RCX, RDX, R8, R9, integer results in RAX and float results in XMM0,
// which the runtime reports as the second return value.
func (process) Call(fn uintptr, args ...uintptr) Result {
	r1, r2, _ := syscall.SyscallN(fn, args...)
	return Result{R1: r1, R2: r2}
}
