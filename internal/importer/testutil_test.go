package importer

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pointseq/internal/headless"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// memParser serves meshes from memory; paths without an entry fail like
// a missing file.
type memParser struct {
	frames map[string]*mesh.Mesh
	calls  []string
}

func (p *memParser) Parse(path string) (*mesh.Mesh, error) {
	p.calls = append(p.calls, path)
	m, ok := p.frames[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return m, nil
}

// cloud builds n points along X with a "speed" scalar and a "velocity"
// vector attribute.
func cloud(n int, speed float32) *mesh.Mesh {
	points := make([][3]float32, n)
	speeds := make([]float32, n)
	vel := make([][3]float32, n)
	for i := range points {
		points[i] = [3]float32{float32(i), 0, 0}
		speeds[i] = speed
		vel[i] = [3]float32{speed, 0, 0}
	}
	return &mesh.Mesh{
		Points: points,
		PointData: map[string]mesh.Attribute{
			"speed":    mesh.Scalar(speeds),
			"velocity": mesh.Vectors(vel),
		},
	}
}

type fixture struct {
	host    *headless.Host
	lib     *sequence.Library
	parser  *memParser
	seq     *sequence.Sequence
	seqName string
}

// newFixture registers a sequence with one path per mesh.
func newFixture(t *testing.T, frames ...*mesh.Mesh) *fixture {
	t.Helper()
	paths := make([]string, len(frames))
	parser := &memParser{frames: make(map[string]*mesh.Mesh)}
	for i, m := range frames {
		paths[i] = fmt.Sprintf("/data/drop_%03d.vtk", i)
		if m != nil {
			parser.frames[paths[i]] = m
		}
	}
	seq, err := sequence.New(paths)
	require.NoError(t, err)

	lib := sequence.NewLibrary()
	require.NoError(t, lib.Add(seq))

	return &fixture{
		host:    headless.New(),
		lib:     lib,
		parser:  parser,
		seq:     seq,
		seqName: seq.Name(),
	}
}

func (f *fixture) bootstrap(t *testing.T, opts Options) *Importer {
	t.Helper()
	imp, err := Bootstrap(f.host, f.lib, f.seqName, f.parser, opts)
	require.NoError(t, err)
	return imp
}

func (f *fixture) emitter(t *testing.T, imp *Importer) *headless.Object {
	t.Helper()
	obj, ok := f.host.Object(imp.Emitter())
	require.True(t, ok, "emitter missing")
	return obj
}
