package importer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/logger"
	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/math"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// Particle display defaults applied at import.
const (
	DefaultRadius  float32 = 0.01
	DefaultDisplay         = host.DisplayDot
)

// Options configure Bootstrap.
type Options struct {
	// Name defaults to the sequence name.
	Name string
	// Transform places the emitter. The zero matrix means identity.
	Transform math.Mat4
	// Settings default to DefaultSettings when zero.
	Settings Settings
	Script   *script.Preprocessor
	// ScriptName selects a script registered with Registry.Scripts. It is
	// resolved by Registry.Import; Bootstrap only accepts Script.
	ScriptName string

	// Radius is the particle size; zero means DefaultRadius.
	Radius float32
	// Display is the viewport display method; empty means DefaultDisplay.
	Display host.DisplayMethod
}

// Bootstrap imports a sequence: it loads frame 0 to learn the point count
// and attribute names, then creates the emitter and instance objects and
// the color material. On failure no importer exists, every object created
// so far is removed again and the error is shown to the user.
func Bootstrap(h host.Host, lib *sequence.Library, seqName string, parser mesh.Parser, opts Options) (*Importer, error) {
	name := opts.Name
	if name == "" {
		name = seqName
	}

	imp, err := bootstrap(h, lib, seqName, parser, name, opts)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrBootstrapFailed, name, err)
		h.Notify(err.Error(), host.SeverityError)
		logger.Named("importer").Error("import failed",
			zap.String("importer", name),
			zap.Error(err))
		return nil, err
	}
	return imp, nil
}

func bootstrap(h host.Host, lib *sequence.Library, seqName string, parser mesh.Parser, name string, opts Options) (*Importer, error) {
	transform := opts.Transform
	if transform == (math.Mat4{}) {
		transform = math.Identity()
	}
	settings := opts.Settings
	if settings == (Settings{}) {
		settings = DefaultSettings()
	}
	radius := opts.Radius
	if radius == 0 {
		radius = DefaultRadius
	}
	display := opts.Display
	if display == "" {
		display = DefaultDisplay
	}
	if err := validateDisplay(radius, display); err != nil {
		return nil, err
	}
	if opts.ScriptName != "" && opts.Script == nil {
		return nil, fmt.Errorf("%w: script %q is not resolved", ErrInvalidSettings, opts.ScriptName)
	}

	imp := &Importer{
		name:      name,
		seqName:   seqName,
		library:   lib,
		host:      h,
		parser:    parser,
		transform: transform,
		settings:  settings,
		script:    opts.Script,
		radius:    radius,
		display:   display,
		state:     StateInvalid,
		log:       logger.Named("importer").With(zap.String("importer", name)),
	}

	first, _, err := imp.loadFrame(0)
	if err != nil {
		return nil, fmt.Errorf("cannot read first frame: %w", err)
	}
	imp.attributes = first.AttributeNames()
	if err := imp.settings.validate(imp.attributes); err != nil {
		return nil, err
	}

	if err := imp.createObjects(first.PointCount()); err != nil {
		return nil, multierr.Append(err, imp.removeCreated())
	}

	imp.state = StateActive
	imp.log.Info("sequence imported",
		zap.String("sequence", seqName),
		zap.Int("points", first.PointCount()),
		zap.Strings("attributes", imp.attributes))
	return imp, nil
}

func (imp *Importer) createObjects(points int) error {
	var err error
	imp.emitter, err = imp.host.CreateObject(host.ObjectSpec{
		Kind: host.KindEmitter,
		Name: imp.name,
		Tag:  imp.Tag(),
	})
	if err != nil {
		return fmt.Errorf("create emitter: %w", err)
	}
	if err := imp.host.SetWorldMatrix(imp.emitter, imp.transform); err != nil {
		return fmt.Errorf("place emitter: %w", err)
	}
	if err := imp.host.SetElementCount(imp.emitter, points); err != nil {
		return fmt.Errorf("size particle buffer: %w", err)
	}
	if err := imp.host.SetParticleDisplay(imp.emitter, imp.radius, imp.display); err != nil {
		return fmt.Errorf("set particle display: %w", err)
	}

	imp.instance, err = imp.host.CreateObject(host.ObjectSpec{
		Kind:   host.KindInstance,
		Name:   imp.name + "_instance",
		Tag:    imp.Tag(),
		Hidden: true,
	})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	graph := ColorGraph()
	for _, h := range []host.Handle{imp.emitter, imp.instance} {
		if err := imp.host.AttachShader(h, graph); err != nil {
			return fmt.Errorf("attach material: %w", err)
		}
	}
	if err := imp.host.SetInstance(imp.emitter, imp.instance); err != nil {
		return fmt.Errorf("link instance: %w", err)
	}
	return nil
}

func (imp *Importer) removeCreated() error {
	var err error
	for _, h := range []host.Handle{imp.instance, imp.emitter} {
		if h != 0 && imp.host.Exists(h) {
			err = multierr.Append(err, imp.host.RemoveObject(h))
		}
	}
	imp.emitter, imp.instance = 0, 0
	return err
}

func validateDisplay(radius float32, display host.DisplayMethod) error {
	if radius <= 0 {
		return fmt.Errorf("%w: particle radius %g", ErrInvalidSettings, radius)
	}
	if !display.Valid() {
		return fmt.Errorf("%w: display method %q", ErrInvalidSettings, display)
	}
	return nil
}
