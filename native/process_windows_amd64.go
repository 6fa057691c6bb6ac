//go:build windows && amd64

package native

import (
	"syscall"
	"unsafe"

	"github.com/ZenLiuCN/engineapi/memory"
	"golang.org/x/sys/windows"
)

type process struct{}

// Process returns the Locator and Invoker of the current process.
func Process() interface {
	Locator
	Invoker
} {
	return process{}
}

// Interface calls the module's CreateInterface(version, nil) export.
// The returned address is borrowed, the host keeps ownership of the instance.
func (p process) Interface(module, version string) (uintptr, error) {
	h, err := memory.Handle(module)
	if err != nil {
		return 0, &InterfaceNotFoundError{Module: module, Version: version, Err: err}
	}
	factory, err := windows.GetProcAddress(h, FactoryExport)
	if err != nil {
		return 0, &InterfaceNotFoundError{Module: module, Version: version, Err: err}
	}
	name, err := windows.BytePtrFromString(version)
	if err != nil {
		return 0, &InterfaceNotFoundError{Module: module, Version: version, Err: err}
	}
	r, _, _ := syscall.SyscallN(factory, uintptr(unsafe.Pointer(name)), 0)
	if r == 0 {
		return 0, &InterfaceNotFoundError{Module: module, Version: version}
	}
	return r, nil
}
