// Package script holds user preprocess functions. A preprocess function
// replaces the default frame-to-file lookup: it receives the sequence and
// the host frame number and returns the mesh to display.
package script

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// Script errors.
var (
	ErrInvalidScript         = errors.New("invalid preprocess script")
	ErrScriptExecutionFailed = errors.New("preprocess script failed")
	ErrUnknownScript         = errors.New("no preprocess script registered under name")
)

// Func is the preprocess signature.
type Func func(seq *sequence.Sequence, frame int) (*mesh.Mesh, error)

// Error reports a failed invocation of a named script.
type Error struct {
	Name  string
	Frame int
	Err   error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("preprocess %q at frame %d: %v", e.Name, e.Frame, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrScriptExecutionFailed.
func (e *Error) Is(target error) bool { return target == ErrScriptExecutionFailed }

// Preprocessor is a validated, named preprocess function.
type Preprocessor struct {
	name string
	fn   Func
}

// Native wraps a Go function.
func Native(name string, fn Func) (*Preprocessor, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %q is nil", ErrInvalidScript, name)
	}
	return &Preprocessor{name: name, fn: fn}, nil
}

// Name returns the script name.
func (p *Preprocessor) Name() string {
	return p.name
}

// Run invokes the function. Errors, panics and nil meshes all come back
// as *Error; nothing escapes as a panic.
func (p *Preprocessor) Run(seq *sequence.Sequence, frame int) (m *mesh.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = &Error{Name: p.name, Frame: frame, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	m, err = p.fn(seq, frame)
	if err != nil {
		return nil, &Error{Name: p.name, Frame: frame, Err: err}
	}
	if m == nil {
		return nil, &Error{Name: p.name, Frame: frame, Err: errors.New("returned no mesh")}
	}
	return m, nil
}

// Registry maps names to preprocess functions so settings can refer to
// a script by name.
type Registry struct {
	scripts map[string]*Preprocessor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{scripts: make(map[string]*Preprocessor)}
}

// Register validates fn and stores it under name.
func (r *Registry) Register(name string, fn Func) error {
	p, err := Native(name, fn)
	if err != nil {
		return err
	}
	return r.Add(p)
}

// Add stores an already validated preprocessor.
func (r *Registry) Add(p *Preprocessor) error {
	if _, ok := r.scripts[p.name]; ok {
		return fmt.Errorf("%w: %q already registered", ErrInvalidScript, p.name)
	}
	r.scripts[p.name] = p
	return nil
}

// Lookup returns the preprocessor registered under name.
func (r *Registry) Lookup(name string) (*Preprocessor, error) {
	p, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	return p, nil
}

// Names lists registered scripts.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for n := range r.scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
