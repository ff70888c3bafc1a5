// Package importer synchronizes an imported point sequence with a host
// particle buffer once per frame.
//
// An Importer is created by Bootstrap, which loads frame 0, creates an
// emitter object owning the particle buffer and a hidden instance template
// carrying the color material. On every frame change the host calls
// Update, which resolves and loads the frame, resizes the buffer when the
// point count changes, writes world-space positions and writes the
// selected attribute into the velocity channel used as a color carrier.
// Update never panics or returns an error to the host: failures become
// user notifications.
package importer

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/math"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/normalize"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// State is the importer lifecycle state.
type State int

// Importer states.
const (
	// StateInvalid means the backing object is gone; Update does nothing.
	StateInvalid State = iota
	// StateActive means Update writes into the backing object.
	StateActive
)

// String returns the state name.
func (s State) String() string {
	if s == StateActive {
		return "Active"
	}
	return "Invalid"
}

// TagPrefix marks host objects owned by an importer.
const TagPrefix = "pointseq:"

// Importer is the per-sequence sync state.
type Importer struct {
	name     string
	seqName  string
	library  *sequence.Library
	host     host.Host
	parser   mesh.Parser
	emitter  host.Handle
	instance host.Handle

	// transform is the placement applied at bootstrap; per-frame writes
	// use the emitter's live world matrix instead.
	transform  math.Mat4
	attributes []string
	settings   Settings
	script     *script.Preprocessor
	radius     float32
	display    host.DisplayMethod

	currentRange normalize.Range
	hasRange     bool

	state           State
	invalidNotified bool

	log *zap.Logger
}

// Name returns the importer name.
func (imp *Importer) Name() string { return imp.name }

// SequenceName returns the name of the sequence this importer reads.
func (imp *Importer) SequenceName() string { return imp.seqName }

// Tag returns the tag stored on the importer's host objects.
func (imp *Importer) Tag() string { return TagPrefix + imp.name }

// State returns the lifecycle state.
func (imp *Importer) State() State { return imp.state }

// Emitter returns the handle of the object owning the particle buffer.
func (imp *Importer) Emitter() host.Handle { return imp.emitter }

// Instance returns the handle of the hidden instance template.
func (imp *Importer) Instance() host.Handle { return imp.instance }

// Transform returns the placement set at bootstrap.
func (imp *Importer) Transform() math.Mat4 { return imp.transform }

// ColorAttributes returns the attribute names discovered in frame 0.
func (imp *Importer) ColorAttributes() []string {
	return slices.Clone(imp.attributes)
}

// Settings returns the current color settings.
func (imp *Importer) Settings() Settings { return imp.settings }

// SetSettings replaces the color settings. The attribute must be one of
// ColorAttributes or empty.
func (imp *Importer) SetSettings(s Settings) error {
	if err := s.validate(imp.attributes); err != nil {
		return err
	}
	imp.settings = s
	return nil
}

// SetAttribute selects the attribute mapped to color and keeps the rest of
// the settings. Empty disables color mapping.
func (imp *Importer) SetAttribute(name string) error {
	s := imp.settings
	s.Attribute = name
	return imp.SetSettings(s)
}

// Radius returns the particle size.
func (imp *Importer) Radius() float32 { return imp.radius }

// DisplayMethod returns the viewport display method.
func (imp *Importer) DisplayMethod() host.DisplayMethod { return imp.display }

// SetRadius sets the render and viewport particle size.
func (imp *Importer) SetRadius(r float32) error {
	return imp.setDisplay(r, imp.display)
}

// SetDisplayMethod sets how the viewport draws particles.
func (imp *Importer) SetDisplayMethod(m host.DisplayMethod) error {
	return imp.setDisplay(imp.radius, m)
}

func (imp *Importer) setDisplay(r float32, m host.DisplayMethod) error {
	if err := validateDisplay(r, m); err != nil {
		return err
	}
	if imp.state != StateActive {
		return ErrBackingObjectRemoved
	}
	if err := imp.host.SetParticleDisplay(imp.emitter, r, m); err != nil {
		return fmt.Errorf("%w: set particle display: %w", ErrHostCall, err)
	}
	imp.radius, imp.display = r, m
	return nil
}

// Script returns the preprocess script, or nil.
func (imp *Importer) Script() *script.Preprocessor { return imp.script }

// SetScript installs a preprocess script that replaces the default
// frame-to-file lookup. nil restores the default.
func (imp *Importer) SetScript(p *script.Preprocessor) {
	imp.script = p
	if p != nil {
		imp.log.Info("preprocess script set", zap.String("script", p.Name()))
	}
}

// CurrentRange returns the magnitude range observed in the last frame
// written with the magnitude policy. It is for display only.
func (imp *Importer) CurrentRange() (normalize.Range, bool) {
	return imp.currentRange, imp.hasRange
}

// Teardown hides and removes the objects this importer owns and marks it
// Invalid. Objects already gone are skipped.
func (imp *Importer) Teardown() error {
	var err error
	for _, h := range []host.Handle{imp.instance, imp.emitter} {
		if h == 0 || !imp.host.Exists(h) {
			continue
		}
		err = multierr.Append(err, imp.host.SetHidden(h, true))
		err = multierr.Append(err, imp.host.RemoveObject(h))
	}
	imp.state = StateInvalid
	imp.invalidNotified = true
	imp.emitter, imp.instance = 0, 0

	if err != nil {
		return fmt.Errorf("%w: teardown %s: %w", ErrHostCall, imp.name, err)
	}
	imp.log.Info("importer removed")
	return nil
}

// Reattach finds the importer's objects by tag and makes it Active again.
// It is a recovery path for hosts whose handles do not survive a session
// reload.
func (imp *Importer) Reattach() error {
	emitter, ok := imp.host.FindByTag(imp.Tag(), host.KindEmitter)
	if !ok {
		return fmt.Errorf("%w: emitter %s", ErrNotFound, imp.Tag())
	}
	instance, _ := imp.host.FindByTag(imp.Tag(), host.KindInstance)

	imp.emitter, imp.instance = emitter, instance
	imp.state = StateActive
	imp.invalidNotified = false
	imp.log.Info("importer reattached",
		zap.Uint64("emitter", uint64(emitter)),
		zap.Uint64("instance", uint64(instance)))
	return nil
}
