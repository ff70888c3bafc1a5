package importer

import (
	"fmt"
	"sort"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// Registry owns the importers of one host scene. Each importer has its
// own emitter; no two importers share a backing object.
type Registry struct {
	host      host.Host
	library   *sequence.Library
	parser    mesh.Parser
	scripts   *script.Registry
	importers map[string]*Importer
	importing bool
}

// NewRegistry returns an empty registry bound to a host and library.
func NewRegistry(h host.Host, lib *sequence.Library, parser mesh.Parser) *Registry {
	return &Registry{
		host:      h,
		library:   lib,
		parser:    parser,
		scripts:   script.NewRegistry(),
		importers: make(map[string]*Importer),
	}
}

// Library returns the sequence library importers read from.
func (r *Registry) Library() *sequence.Library { return r.library }

// Scripts returns the preprocess scripts importers can select by name.
func (r *Registry) Scripts() *script.Registry { return r.scripts }

// Import bootstraps seqName and registers the importer. Nothing is
// registered when bootstrap fails. opts.ScriptName, when set, is looked
// up in Scripts.
func (r *Registry) Import(seqName string, opts Options) (*Importer, error) {
	if r.importing {
		return nil, ErrBootstrapInProgress
	}
	r.importing = true
	defer func() { r.importing = false }()

	name := opts.Name
	if name == "" {
		name = seqName
	}
	if _, ok := r.importers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyImported, name)
	}
	opts.Name = name

	if opts.ScriptName != "" {
		p, err := r.scripts.Lookup(opts.ScriptName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
		opts.Script = p
	}

	imp, err := Bootstrap(r.host, r.library, seqName, r.parser, opts)
	if err != nil {
		return nil, err
	}
	r.importers[name] = imp
	return imp, nil
}

// SetScript assigns the registered script scriptName to an importer. An
// empty scriptName restores the default frame lookup.
func (r *Registry) SetScript(importer, scriptName string) error {
	imp, ok := r.importers[importer]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownImporter, importer)
	}
	if scriptName == "" {
		imp.SetScript(nil)
		return nil
	}
	p, err := r.scripts.Lookup(scriptName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	imp.SetScript(p)
	return nil
}

// Get returns a registered importer.
func (r *Registry) Get(name string) (*Importer, bool) {
	imp, ok := r.importers[name]
	return imp, ok
}

// Names lists registered importers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.importers))
	for n := range r.importers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Remove tears an importer down and unregisters it. It is unregistered
// even when teardown reports errors.
func (r *Registry) Remove(name string) error {
	imp, ok := r.importers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownImporter, name)
	}
	delete(r.importers, name)
	return imp.Teardown()
}

// OnFrameChange updates every importer for the host's current frame.
// Reports are ordered by importer name.
func (r *Registry) OnFrameChange() []FrameReport {
	frame := r.host.CurrentFrame()
	names := r.Names()
	reports := make([]FrameReport, 0, len(names))
	for _, n := range names {
		reports = append(reports, r.importers[n].Update(frame))
	}
	return reports
}
