package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/math"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/normalize"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

func TestBootstrapCreatesObjects(t *testing.T) {
	f := newFixture(t, cloud(10, 1), cloud(10, 2))
	transform := math.Compose(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})

	imp := f.bootstrap(t, Options{Transform: transform})

	assert.Equal(t, StateActive, imp.State())
	assert.Equal(t, "drop_.vtk", imp.Name())
	assert.Equal(t, []string{"speed", "velocity"}, imp.ColorAttributes())
	assert.Equal(t, transform, imp.Transform())

	emitter := f.emitter(t, imp)
	assert.Equal(t, host.KindEmitter, emitter.Spec.Kind)
	assert.Equal(t, 10, emitter.Count)
	assert.Equal(t, transform, emitter.World)
	assert.Equal(t, imp.Instance(), emitter.Instance)
	assert.Equal(t, TagPrefix+"drop_.vtk", emitter.Spec.Tag)

	instance, ok := f.host.Object(imp.Instance())
	require.True(t, ok)
	assert.Equal(t, host.KindInstance, instance.Spec.Kind)
	assert.True(t, instance.Hidden)
	require.NotNil(t, instance.Shader)
	assert.Equal(t, ColorGraph(), *instance.Shader)
	require.NotNil(t, emitter.Shader, "emitter carries the material too")
	assert.Equal(t, ColorGraph(), *emitter.Shader)

	assert.Equal(t, DefaultRadius, emitter.ParticleSize)
	assert.Equal(t, host.DisplayDot, emitter.Display)

	assert.Empty(t, f.host.Notifications())
}

func TestBootstrapDefaultsToIdentity(t *testing.T) {
	f := newFixture(t, cloud(3, 1))
	imp := f.bootstrap(t, Options{})
	assert.Equal(t, math.Identity(), imp.Transform())
	assert.Equal(t, math.Identity(), f.emitter(t, imp).World)
	assert.Equal(t, DefaultSettings(), imp.Settings())
	assert.Equal(t, DefaultRadius, imp.Radius())
	assert.Equal(t, host.DisplayDot, imp.DisplayMethod())
}

func TestDefaultSettingsRescaleAfterSelectingAttribute(t *testing.T) {
	f := newFixture(t, cloud(3, 25))
	imp := f.bootstrap(t, Options{})

	require.NoError(t, imp.SetAttribute("speed"))
	assert.Equal(t, normalize.Range{Min: 0, Max: 100}, imp.Settings().Range)

	r := imp.Update(0)
	require.NoError(t, r.Err)
	for _, c := range f.emitter(t, imp).Colors {
		assert.InDelta(t, 0.25, c[0], 1e-6)
	}
}

func TestBootstrapDisplayOptions(t *testing.T) {
	f := newFixture(t, cloud(3, 1))
	imp := f.bootstrap(t, Options{Radius: 0.2, Display: host.DisplayCircle})
	emitter := f.emitter(t, imp)
	assert.Equal(t, float32(0.2), emitter.ParticleSize)
	assert.Equal(t, host.DisplayCircle, emitter.Display)

	_, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{Name: "bad", Display: "SPARKLE"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{Name: "neg", Radius: -1})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Len(t, f.host.Objects(), 2, "rejected options create nothing")
}

func TestSetRadiusAndDisplayMethod(t *testing.T) {
	f := newFixture(t, cloud(3, 1))
	imp := f.bootstrap(t, Options{})

	require.NoError(t, imp.SetRadius(0.5))
	require.NoError(t, imp.SetDisplayMethod(host.DisplayRender))
	emitter := f.emitter(t, imp)
	assert.Equal(t, float32(0.5), emitter.ParticleSize)
	assert.Equal(t, host.DisplayRender, emitter.Display)

	assert.ErrorIs(t, imp.SetRadius(0), ErrInvalidSettings)
	assert.ErrorIs(t, imp.SetDisplayMethod("SPARKLE"), ErrInvalidSettings)
	assert.Equal(t, float32(0.5), imp.Radius())
	assert.Equal(t, host.DisplayRender, imp.DisplayMethod())

	require.NoError(t, imp.Teardown())
	assert.ErrorIs(t, imp.SetRadius(0.1), ErrBackingObjectRemoved)
}

func TestBootstrapFrameZeroMissing(t *testing.T) {
	f := newFixture(t, nil, cloud(4, 1))

	imp, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{})
	assert.Nil(t, imp)
	require.ErrorIs(t, err, ErrBootstrapFailed)
	assert.ErrorIs(t, err, ErrFrameLoadFailed)

	var loadErr *FrameLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/data/drop_000.vtk", loadErr.Path)
	assert.Empty(t, f.host.Objects(), "no objects may be left behind")

	notes := f.host.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, host.SeverityError, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "cannot read first frame")
	assert.Contains(t, notes[0].Message, "/data/drop_000.vtk")
}

func TestBootstrapUnresolvedScriptName(t *testing.T) {
	f := newFixture(t, cloud(2, 1))
	_, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{ScriptName: "smooth"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Empty(t, f.host.Objects())
}

func TestBootstrapRollsBackObjects(t *testing.T) {
	f := newFixture(t, cloud(4, 1))
	f.host.CreateErr[host.KindInstance] = errors.New("out of object slots")

	imp, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{})
	assert.Nil(t, imp)
	assert.ErrorIs(t, err, ErrBootstrapFailed)
	assert.Contains(t, err.Error(), "out of object slots")
	assert.Empty(t, f.host.Objects())
	assert.Len(t, f.host.Notifications(), 1)
}

func TestBootstrapRejectsUnknownAttribute(t *testing.T) {
	f := newFixture(t, cloud(4, 1))
	_, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, Options{
		Settings: Settings{Attribute: "pressure", Range: normalize.Range{Max: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Empty(t, f.host.Objects())
}

func TestBootstrapMissingSequence(t *testing.T) {
	f := newFixture(t, cloud(4, 1))
	_, err := Bootstrap(f.host, sequence.NewLibrary(), f.seqName, f.parser, Options{})
	assert.ErrorIs(t, err, ErrSequenceMissing)
}

func TestBootstrapUsesScript(t *testing.T) {
	f := newFixture(t, nil)
	p, err := script.Native("synthetic", func(*sequence.Sequence, int) (*mesh.Mesh, error) {
		return cloud(6, 1), nil
	})
	require.NoError(t, err)

	imp := f.bootstrap(t, Options{Script: p})
	assert.Equal(t, 6, f.emitter(t, imp).Count)
	assert.Empty(t, f.parser.calls)
}

func TestColorGraphShape(t *testing.T) {
	g := ColorGraph()
	require.Len(t, g.Nodes, 6)

	ramp, ok := g.Node("ramp")
	require.True(t, ok)
	require.NotEmpty(t, ramp.Ramp)
	assert.Equal(t, float32(0), ramp.Ramp[0].Position)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, ramp.Ramp[0].Color, "zero maps to blue")

	// Both dot product inputs read the velocity carrier.
	var selfDot int
	for _, l := range g.Links {
		if l.From == "particle_info" && l.FromSocket == "Velocity" && l.To == "dot" {
			selfDot++
		}
	}
	assert.Equal(t, 2, selfDot)

	out, ok := g.Node("output")
	require.True(t, ok)
	assert.Equal(t, host.NodeOutput, out.Type)
}
