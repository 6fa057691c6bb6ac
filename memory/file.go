package memory

import (
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZenLiuCN/fn"
)

var (
	// ErrImageLayout occurs when a PE file describes sections outside its image size.
	ErrImageLayout = errors.New("invalid image layout")
)

// LoadFile reads a module image from disk. PE files are laid out the way the
// loader maps them, so offsets found in the image are RVAs and Base is the
// preferred image base. Anything else is loaded as raw bytes at base 0.
// An empty name defaults to the file base name.
func LoadFile(path, name string) (m *Image, err error) {
	if name == "" {
		name = filepath.Base(path)
	}
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	if m, err = MapPE(f, name); err == nil {
		return
	}
	if !errors.Is(err, errNotPE) {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return
	}
	var data []byte
	if data, err = io.ReadAll(f); err != nil {
		return
	}
	return NewImage(name, 0, data), nil
}

var errNotPE = errors.New("not a PE image")

// MaxImageSize bounds the memory MapPE allocates for one image.
const MaxImageSize = 1 << 30

// imageExtent is where the last section ends, rounded up to the section alignment.
// A genuine SizeOfImage never exceeds it.
func imageExtent(f *pe.File, sizeOfHeaders, align uint32) uint64 {
	if align == 0 {
		align = 0x1000
	}
	end := uint64(sizeOfHeaders)
	for _, s := range f.Sections {
		end = max(end, uint64(s.VirtualAddress)+uint64(max(s.VirtualSize, s.Size)))
	}
	a := uint64(align)
	return (end + a - 1) / a * a
}

// MapPE lays a PE file out as it would be mapped: headers at 0 and every
// section at its virtual address.
func MapPE(r io.ReaderAt, name string) (m *Image, err error) {
	var f *pe.File
	if f, err = pe.NewFile(r); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotPE, err)
	}
	var base uint64
	var sizeOfImage, sizeOfHeaders, align uint32
	switch h := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		base, sizeOfImage, sizeOfHeaders, align = uint64(h.ImageBase), h.SizeOfImage, h.SizeOfHeaders, h.SectionAlignment
	case *pe.OptionalHeader64:
		base, sizeOfImage, sizeOfHeaders, align = h.ImageBase, h.SizeOfImage, h.SizeOfHeaders, h.SectionAlignment
	default:
		return nil, fmt.Errorf("%w: no optional header", errNotPE)
	}
	if sizeOfHeaders > sizeOfImage {
		return nil, fmt.Errorf("%w: headers %#x > image %#x", ErrImageLayout, sizeOfHeaders, sizeOfImage)
	}
	if limit := imageExtent(f, sizeOfHeaders, align); uint64(sizeOfImage) > limit || sizeOfImage > MaxImageSize {
		return nil, fmt.Errorf("%w: image size %#x, sections end at %#x", ErrImageLayout, sizeOfImage, limit)
	}
	data := make([]byte, sizeOfImage)
	if _, err = r.ReadAt(data[:sizeOfHeaders], 0); err != nil && err != io.EOF {
		return nil, err
	}
	for _, s := range f.Sections {
		n := s.VirtualSize
		if n == 0 || n > s.Size {
			n = s.Size
		}
		if n == 0 {
			continue
		}
		if uint64(s.VirtualAddress)+uint64(n) > uint64(sizeOfImage) {
			return nil, fmt.Errorf("%w: section %s", ErrImageLayout, s.Name)
		}
		if _, err = s.ReadAt(data[s.VirtualAddress:s.VirtualAddress+n], 0); err != nil && err != io.EOF {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
	}
	return NewImage(name, uintptr(base), data), nil
}
