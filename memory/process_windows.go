//go:build windows

package memory

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type process struct{}

// Process returns the Scanner of the current process.
func Process() Scanner {
	return process{}
}

// Handle returns the handle of a module loaded in the current process without
// touching its reference count.
func Handle(name string) (h windows.Handle, err error) {
	var n *uint16
	if n, err = windows.UTF16PtrFromString(name); err != nil {
		return
	}
	err = windows.GetModuleHandleEx(windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT, n, &h)
	return
}

// Module looks the module up with GetModuleHandleEx and GetModuleInformation.
// The returned Data aliases the mapped image, no bytes are copied.
func (process) Module(name string) (*Image, error) {
	h, err := Handle(name)
	if err != nil {
		return nil, &ModuleNotMappedError{Name: name, Err: err}
	}
	var info windows.ModuleInfo
	if err = windows.GetModuleInformation(windows.CurrentProcess(), h, &info, uint32(unsafe.Sizeof(info))); err != nil {
		return nil, &ModuleNotMappedError{Name: name, Err: err}
	}
	if info.BaseOfDll == 0 || info.SizeOfImage == 0 {
		return nil, &ModuleNotMappedError{Name: name}
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(info.BaseOfDll)), int(info.SizeOfImage))
	return &Image{
		Range: Range{Name: name, Base: info.BaseOfDll, Size: uintptr(info.SizeOfImage)},
		Data:  data,
	}, nil
}
