package sequence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestResolveWraparound(t *testing.T) {
	seq, err := New([]string{"a_0.yaml", "a_1.yaml", "a_2.yaml"})
	require.NoError(t, err)

	n := seq.Len()
	for f := -7; f < 12; f++ {
		base, err := seq.Resolve(f)
		require.NoError(t, err)
		for k := -3; k <= 3; k++ {
			p, err := seq.Resolve(f + k*n)
			require.NoError(t, err)
			assert.Equal(t, base, p, "frame %d, k %d", f, k)
		}
	}

	p, _ := seq.Resolve(2)
	assert.Equal(t, "a_2.yaml", p)
	p, _ = seq.Resolve(3)
	assert.Equal(t, "a_0.yaml", p)
	p, _ = seq.Resolve(-1)
	assert.Equal(t, "a_2.yaml", p)
}

func TestResolveZeroValue(t *testing.T) {
	var seq *Sequence
	_, err := seq.Resolve(0)
	assert.ErrorIs(t, err, ErrEmptySequence)

	_, err = (&Sequence{}).Resolve(4)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestDeriveName(t *testing.T) {
	tests := map[string]string{
		"/data/fluid_0012.vtk": "fluid_.vtk",
		"points.ply":           "points.ply",
		"frame10":              "frame",
		"run2_step007.bgeo":    "run2_step.bgeo",
	}
	for in, want := range tests {
		assert.Equal(t, want, DeriveName(in), in)
	}
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, naturalLess("f2.vtk", "f10.vtk"))
	assert.False(t, naturalLess("f10.vtk", "f2.vtk"))
	assert.True(t, naturalLess("f02.vtk", "f002.vtk"))
	assert.True(t, naturalLess("a1", "b0"))
	assert.True(t, naturalLess("f1", "f1a"))
}

func TestFromPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"p_10.yaml", "p_2.yaml", "p_1.yaml", "other.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("points: []\n"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "p_99.yaml"), 0755))

	seq, err := FromPattern(dir, "p_*.yaml")
	require.NoError(t, err)

	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, "p_.yaml", seq.Name())
	assert.Equal(t, "p_*.yaml", seq.Pattern())
	assert.Equal(t, []string{
		filepath.Join(dir, "p_1.yaml"),
		filepath.Join(dir, "p_2.yaml"),
		filepath.Join(dir, "p_10.yaml"),
	}, seq.Paths())
}

func TestFromPatternNoMatches(t *testing.T) {
	_, err := FromPattern(t.TempDir(), "*.vtk")
	assert.ErrorIs(t, err, ErrNoMatches)

	_, err = FromPattern(filepath.Join(t.TempDir(), "missing"), "*.vtk")
	assert.Error(t, err)
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary()
	seq, err := New([]string{"x_1.ply"})
	require.NoError(t, err)

	require.NoError(t, lib.Add(seq))
	assert.ErrorIs(t, lib.Add(seq), ErrDuplicateName)

	got, ok := lib.Get("x_.ply")
	require.True(t, ok)
	assert.Same(t, seq, got)
	assert.Equal(t, []string{"x_.ply"}, lib.Names())

	assert.True(t, lib.Remove("x_.ply"))
	assert.False(t, lib.Remove("x_.ply"))
	_, ok = lib.Get("x_.ply")
	assert.False(t, ok)
}

func TestLibraryNameCollision(t *testing.T) {
	lib := NewLibrary()
	a, err := New([]string{"a/fluid_001.vtk"})
	require.NoError(t, err)
	b, err := New([]string{"b/fluid_001.vtk"})
	require.NoError(t, err)
	require.Equal(t, a.Name(), b.Name())

	require.NoError(t, lib.Add(a))
	err = lib.Add(b)
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Contains(t, err.Error(), "fluid_.vtk")
	assert.Contains(t, err.Error(), "a/fluid_001.vtk")

	require.NoError(t, lib.AddAs("b/fluid_.vtk", b))
	got, ok := lib.Get("b/fluid_.vtk")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, []string{"b/fluid_.vtk", "fluid_.vtk"}, lib.Names())
}
