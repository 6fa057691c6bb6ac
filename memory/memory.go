// Package memory resolves loaded modules to read-only byte views.
package memory

import (
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
)

type (
	// Range is where a module is mapped in the current process.
	Range struct {
		Name string
		Base uintptr
		Size uintptr
	}
	// Image is a Range together with its bytes. Data must never be written:
	// for live modules it aliases the host's own code.
	Image struct {
		Range
		Data []byte
	}
	// Scanner resolves a module name to its mapped Image.
	Scanner interface {
		Module(name string) (*Image, error)
	}
	// ModuleNotMappedError names the module that could not be found.
	ModuleNotMappedError struct {
		Name string
		Err  error // optional OS cause
	}
)

var (
	// ErrModuleNotMapped is matched by every ModuleNotMappedError.
	ErrModuleNotMapped = errors.New("module not mapped")
	// ErrUnsupported occurs when the platform has no module introspection backend.
	ErrUnsupported = errors.New("module scanning unsupported on this platform")
	// ErrOutOfRange occurs when an offset falls outside an image.
	ErrOutOfRange = errors.New("offset out of module range")
)

func (e *ModuleNotMappedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module not mapped: %s: %v", e.Name, e.Err)
	}
	return "module not mapped: " + e.Name
}

func (e *ModuleNotMappedError) Is(target error) bool {
	return target == ErrModuleNotMapped
}

func (e *ModuleNotMappedError) Unwrap() error {
	return e.Err
}

// NewImage wraps a byte buffer as an image mapped at base.
func NewImage(name string, base uintptr, data []byte) *Image {
	return &Image{
		Range: Range{Name: name, Base: base, Size: uintptr(len(data))},
		Data:  data,
	}
}

// End is the first address past the range.
func (r Range) End() uintptr {
	return r.Base + r.Size
}

// Contains reports whether addr lies inside the range.
func (r Range) Contains(addr uintptr) bool {
	return addr >= r.Base && addr < r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%#x-%#x]", r.Name, r.Base, r.End())
}

// Address converts an offset inside the image into an absolute address.
func (m *Image) Address(offset int) (uintptr, error) {
	if offset < 0 || uintptr(offset) >= m.Size {
		return 0, fmt.Errorf("%w: %s+%#x", ErrOutOfRange, m.Name, offset)
	}
	return m.Base + uintptr(offset), nil
}

// Fingerprint hashes the image bytes. It identifies the exact binary a
// catalogue was matched against; it is not used to validate matches.
func (m *Image) Fingerprint() uint64 {
	return xxh3.Hash(m.Data)
}

// Static is a Scanner over images that were captured beforehand.
type Static map[string]*Image

// Module implements Scanner.
func (s Static) Module(name string) (*Image, error) {
	if m, ok := s[name]; ok {
		return m, nil
	}
	return nil, &ModuleNotMappedError{Name: name}
}
