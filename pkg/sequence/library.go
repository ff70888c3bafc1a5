package sequence

import (
	"errors"
	"fmt"
	"sort"
)

// Library errors.
var (
	ErrDuplicateName = errors.New("sequence name already in library")
)

// Library is the externally owned set of imported sequences. Importers
// keep only a sequence name and look it up on every frame, so removing a
// sequence here is observed rather than crashing the importer.
type Library struct {
	byName map[string]*Sequence
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{byName: make(map[string]*Sequence)}
}

// Add registers seq under its derived name.
func (l *Library) Add(seq *Sequence) error {
	return l.AddAs(seq.Name(), seq)
}

// AddAs registers seq under name. Use it for sequences whose derived names
// collide, such as the same file pattern in two directories.
func (l *Library) AddAs(name string, seq *Sequence) error {
	if existing, ok := l.byName[name]; ok {
		return fmt.Errorf("%w: %s (first frame %s)", ErrDuplicateName, name, existing.Path(0))
	}
	l.byName[name] = seq
	return nil
}

// Get returns the sequence with the given name.
func (l *Library) Get(name string) (*Sequence, bool) {
	s, ok := l.byName[name]
	return s, ok
}

// Remove deletes a sequence. It reports whether it was present.
func (l *Library) Remove(name string) bool {
	if _, ok := l.byName[name]; !ok {
		return false
	}
	delete(l.byName, name)
	return true
}

// Names returns all sequence names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.byName))
	for n := range l.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
