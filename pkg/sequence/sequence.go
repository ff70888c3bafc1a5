// Package sequence holds ordered, immutable collections of per-frame
// geometry files and maps host frame numbers onto them.
package sequence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sequence errors.
var (
	ErrEmptySequence = errors.New("sequence has no frames")
	ErrNoMatches     = errors.New("pattern matched no files")
)

// Sequence is an ordered list of frame file paths. It is never modified
// after construction, so it may be shared by several importers.
type Sequence struct {
	name    string
	pattern string
	paths   []string
}

// New creates a sequence from explicit paths, kept in the given order.
func New(paths []string) (*Sequence, error) {
	if len(paths) == 0 {
		return nil, ErrEmptySequence
	}
	p := make([]string, len(paths))
	copy(p, paths)
	return &Sequence{
		name:  DeriveName(p[0]),
		paths: p,
	}, nil
}

// FromPattern globs dir for files matching pattern and orders them by
// embedded frame number ("f2" before "f10").
func FromPattern(dir, pattern string) (*Sequence, error) {
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("sequence dir %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("sequence dir %s: not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, filepath.Join(dir, pattern))
	}

	sort.SliceStable(files, func(i, j int) bool {
		return naturalLess(filepath.Base(files[i]), filepath.Base(files[j]))
	})

	seq, err := New(files)
	if err != nil {
		return nil, err
	}
	seq.pattern = pattern
	return seq, nil
}

// Name identifies the sequence: the file base name without its frame
// number, followed by the extension ("fluid_0012.vtk" -> "fluid_.vtk").
func (s *Sequence) Name() string {
	return s.name
}

// Pattern returns the glob the sequence was built from, if any.
func (s *Sequence) Pattern() string {
	return s.pattern
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}

// Path returns the path stored at index i.
func (s *Sequence) Path(i int) string {
	return s.paths[i]
}

// Paths returns a copy of all frame paths.
func (s *Sequence) Paths() []string {
	p := make([]string, len(s.paths))
	copy(p, s.paths)
	return p
}

// DeriveName builds a sequence name from one of its frame paths.
func DeriveName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem = strings.TrimRight(stem, "0123456789")
	return stem + ext
}

// naturalLess compares two strings treating digit runs as numbers.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := isDigit(a[0]), isDigit(b[0])
		switch {
		case da && db:
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			ta, tb := strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
			if len(ta) != len(tb) {
				return len(ta) < len(tb)
			}
			if ta != tb {
				return ta < tb
			}
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			a, b = ra, rb
		case a[0] != b[0]:
			return a[0] < b[0]
		default:
			a, b = a[1:], b[1:]
		}
	}
	return len(a) < len(b)
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
