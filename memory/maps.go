package memory

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// segment is one line of a /proc/<pid>/maps listing.
type segment struct {
	start, end uintptr
	readable   bool
	path       string
}

// parseMaps collects the segments backed by the file named name, matched either
// by full path or by base name.
func parseMaps(r io.Reader, name string) (segs []segment, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 6 {
			continue
		}
		path := strings.Join(f[5:], " ")
		if path != name && filepath.Base(path) != name {
			continue
		}
		lo, hi, ok := strings.Cut(f[0], "-")
		if !ok {
			return nil, fmt.Errorf("malformed maps range %q", f[0])
		}
		var s segment
		var v uint64
		if v, err = strconv.ParseUint(lo, 16, 64); err != nil {
			return
		}
		s.start = uintptr(v)
		if v, err = strconv.ParseUint(hi, 16, 64); err != nil {
			return
		}
		s.end = uintptr(v)
		s.readable = strings.HasPrefix(f[1], "r")
		s.path = path
		segs = append(segs, s)
	}
	err = sc.Err()
	return
}

// span is the smallest range covering every segment.
func span(segs []segment) (base, size uintptr) {
	if len(segs) == 0 {
		return
	}
	base, end := segs[0].start, segs[0].end
	for _, s := range segs[1:] {
		base = min(base, s.start)
		end = max(end, s.end)
	}
	return base, end - base
}
