// Package pattern matches wildcard byte signatures against raw memory.
//
// A Pattern is built once, either from a byte slice paired with a mask string
// ('x' must match, '?' is a wildcard) or from the text form used in catalogue
// files ("48 8B ?? 05"). Searching is a plain leftmost-first sliding window.
package pattern

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

type (
	// Pattern is an immutable byte signature. The zero value is not usable, build one with New or Parse.
	Pattern struct {
		bytes []byte
		wild  []bool
	}
)

var (
	// ErrEmpty occurs when a pattern has no bytes.
	ErrEmpty = errors.New("empty pattern")
	// ErrMaskLength occurs when pattern and mask lengths differ.
	ErrMaskLength = errors.New("pattern and mask length mismatch")
	// ErrMaskChar occurs when a mask contains something other than 'x' or '?'.
	ErrMaskChar = errors.New("invalid mask character")
	// ErrToken occurs when the text form contains an invalid byte token.
	ErrToken = errors.New("invalid pattern token")
	// ErrAllWildcard occurs when a pattern has no byte to anchor on.
	ErrAllWildcard = errors.New("pattern has only wildcards")
	// ErrTooLong occurs when a pattern is longer than the buffer it should be searched in.
	ErrTooLong = errors.New("pattern longer than haystack")
)

// New creates a Pattern from bytes and a mask of the same length.
func New(b []byte, mask string) (p Pattern, err error) {
	if len(b) == 0 {
		err = ErrEmpty
		return
	}
	if len(b) != len(mask) {
		err = fmt.Errorf("%w: %d bytes, %d mask", ErrMaskLength, len(b), len(mask))
		return
	}
	p.bytes = make([]byte, len(b))
	p.wild = make([]bool, len(b))
	copy(p.bytes, b)
	for i := 0; i < len(mask); i++ {
		switch mask[i] {
		case 'x', 'X':
		case '?':
			p.wild[i] = true
			p.bytes[i] = 0
		default:
			err = fmt.Errorf("%w %q at %d", ErrMaskChar, mask[i], i)
			return Pattern{}, err
		}
	}
	if p.anchor() < 0 {
		return Pattern{}, ErrAllWildcard
	}
	return
}

// Parse creates a Pattern from space separated hex bytes where "?" or "??" marks a wildcard.
func Parse(s string) (p Pattern, err error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		err = ErrEmpty
		return
	}
	b := make([]byte, len(fields))
	mask := make([]byte, len(fields))
	for i, f := range fields {
		if f == "?" || f == "??" {
			mask[i] = '?'
			continue
		}
		if len(f) != 2 {
			err = fmt.Errorf("%w %q at %d", ErrToken, f, i)
			return
		}
		if _, err = hex.Decode(b[i:i+1], []byte(f)); err != nil {
			err = fmt.Errorf("%w %q at %d: %v", ErrToken, f, i, err)
			return
		}
		mask[i] = 'x'
	}
	return New(b, string(mask))
}

// MustParse is Parse which panics on error, for compiled-in signatures.
func MustParse(s string) Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of bytes (wildcards included).
func (p Pattern) Len() int {
	return len(p.bytes)
}

// Mask returns the mask string form ('x' and '?').
func (p Pattern) Mask() string {
	s := make([]byte, len(p.wild))
	for i, w := range p.wild {
		if w {
			s[i] = '?'
		} else {
			s[i] = 'x'
		}
	}
	return string(s)
}

// Bytes returns a copy of the pattern bytes, wildcard positions are zero.
func (p Pattern) Bytes() []byte {
	b := make([]byte, len(p.bytes))
	copy(b, p.bytes)
	return b
}

// String renders the text form accepted by Parse.
func (p Pattern) String() string {
	s := strings.Builder{}
	for i, c := range p.bytes {
		if i > 0 {
			s.WriteByte(' ')
		}
		if p.wild[i] {
			s.WriteString("??")
		} else {
			s.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
	}
	return s.String()
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (p *Pattern) UnmarshalText(text []byte) (err error) {
	*p, err = Parse(string(text))
	return
}

// anchor is the index of the first concrete byte, -1 if there is none.
func (p Pattern) anchor() int {
	for i, w := range p.wild {
		if !w {
			return i
		}
	}
	return -1
}

func (p Pattern) matchAt(h []byte, off int) bool {
	for j, c := range p.bytes {
		if !p.wild[j] && h[off+j] != c {
			return false
		}
	}
	return true
}

// Fits reports ErrTooLong when h can never contain p.
func (p Pattern) Fits(h []byte) error {
	if len(p.bytes) == 0 {
		return ErrEmpty
	}
	if len(p.bytes) > len(h) {
		return fmt.Errorf("%w: %d > %d", ErrTooLong, len(p.bytes), len(h))
	}
	return nil
}

// Find returns the lowest offset in h where p matches.
// The returned offset always lies in [0, len(h)-p.Len()].
func (p Pattern) Find(h []byte) (offset int, ok bool) {
	return p.FindFrom(h, 0)
}

// FindFrom is Find starting at offset start.
func (p Pattern) FindFrom(h []byte, start int) (offset int, ok bool) {
	n := len(p.bytes)
	if n == 0 || start < 0 || n > len(h) {
		return -1, false
	}
	a := p.anchor()
	c := p.bytes[a]
	last := len(h) - n
	for i := start; i <= last; i++ {
		if h[i+a] != c {
			continue
		}
		if p.matchAt(h, i) {
			return i, true
		}
	}
	return -1, false
}

// FindAll returns every matching offset in ascending order, overlapping matches included.
func (p Pattern) FindAll(h []byte) (offsets []int) {
	for off, ok := p.Find(h); ok; off, ok = p.FindFrom(h, off+1) {
		offsets = append(offsets, off)
	}
	return
}

// Count returns the number of matching offsets.
func (p Pattern) Count(h []byte) (n int) {
	for off, ok := p.Find(h); ok; off, ok = p.FindFrom(h, off+1) {
		n++
	}
	return
}
