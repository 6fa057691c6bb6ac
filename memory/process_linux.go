//go:build linux

package memory

import (
	"os"

	"github.com/ZenLiuCN/fn"
)

type process struct{}

// Process returns the Scanner of the current process.
func Process() Scanner {
	return process{}
}

// Module locates the module in /proc/self/maps and copies its readable
// segments out of /proc/self/mem. Gaps between segments read as zero.
func (process) Module(name string) (*Image, error) {
	mf, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, &ModuleNotMappedError{Name: name, Err: err}
	}
	defer fn.IgnoreClose(mf)
	segs, err := parseMaps(mf, name)
	if err != nil {
		return nil, &ModuleNotMappedError{Name: name, Err: err}
	}
	base, size := span(segs)
	if size == 0 {
		return nil, &ModuleNotMappedError{Name: name}
	}
	mem, err := os.Open("/proc/self/mem")
	if err != nil {
		return nil, &ModuleNotMappedError{Name: name, Err: err}
	}
	defer fn.IgnoreClose(mem)
	data := make([]byte, size)
	for _, s := range segs {
		if !s.readable {
			continue
		}
		if _, err = mem.ReadAt(data[s.start-base:s.end-base], int64(s.start)); err != nil {
			return nil, &ModuleNotMappedError{Name: name, Err: err}
		}
	}
	return &Image{Range: Range{Name: name, Base: base, Size: size}, Data: data}, nil
}
