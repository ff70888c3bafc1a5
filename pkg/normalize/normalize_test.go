package normalize

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/Faultbox/pointseq/pkg/mesh"
)

func TestNormalize_ShapeAlwaysN3(t *testing.T) {
	tests := []struct {
		name string
		attr mesh.Attribute
	}{
		{"scalar", mesh.Scalar([]float32{1, 2, 3, 4})},
		{"one column", mesh.Attribute{Shape: []int{4, 1}, Data: []float32{1, 2, 3, 4}}},
		{"two columns", mesh.Attribute{Shape: []int{4, 2}, Data: make([]float32, 8)}},
		{"three columns", mesh.Vectors(make([][3]float32, 4))},
	}

	for _, tt := range tests {
		for _, rv := range []bool{false, true} {
			res, err := Normalize(tt.attr, 4, Policy{RealValue: rv, Range: Range{0, 1}})
			if err != nil {
				t.Fatalf("%s real=%v: %v", tt.name, rv, err)
			}
			if len(res.Channel) != 4 {
				t.Errorf("%s real=%v: got %d rows, want 4", tt.name, rv, len(res.Channel))
			}
		}
	}
}

func TestNormalize_TooManyDimensions(t *testing.T) {
	tests := []struct {
		name string
		attr mesh.Attribute
	}{
		{"four components", mesh.Attribute{Shape: []int{2, 4}, Data: make([]float32, 8)}},
		{"rank three", mesh.Attribute{Shape: []int{2, 1, 1}, Data: make([]float32, 2)}},
		{"rank zero", mesh.Attribute{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.attr, 2, Policy{})
			if !errors.Is(err, ErrTooManyDimensions) {
				t.Errorf("expected ErrTooManyDimensions, got %v", err)
			}
		})
	}
}

func TestNormalize_LengthMismatch(t *testing.T) {
	_, err := Normalize(mesh.Scalar([]float32{1, 2}), 3, Policy{})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestNormalize_MagnitudeBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 500
	values := make([][3]float32, n)
	for i := range values {
		for c := 0; c < 3; c++ {
			values[i][c] = float32(rng.NormFloat64() * 100)
		}
	}
	attr := mesh.Vectors(values)

	ranges := []Range{{0, 1}, {-50, 50}, {10, 200}, {0, 1e-3}}
	for _, r := range ranges {
		res, err := Normalize(attr, n, Policy{Range: r})
		if err != nil {
			t.Fatalf("range %v: %v", r, err)
		}
		for i, v := range res.Channel {
			if v[0] < 0 || v[0] > 1 || v[1] != 0 || v[2] != 0 {
				t.Fatalf("range %v: element %d out of bounds: %v", r, i, v)
			}
		}
	}
}

func TestNormalize_MagnitudeRescale(t *testing.T) {
	attr := mesh.Vectors([][3]float32{{3, 4, 0}, {0, 0, 0}, {6, 8, 0}})
	res, err := Normalize(attr, 3, Policy{Range: Range{0, 10}})
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{0.5, 0, 1}
	for i, w := range want {
		if math.Abs(float64(res.Channel[i][0]-w)) > 1e-6 {
			t.Errorf("element %d: got %f, want %f", i, res.Channel[i][0], w)
		}
	}

	if !res.HasObserved || res.Observed.Min != 0 || res.Observed.Max != 10 {
		t.Errorf("observed range: got %+v", res.Observed)
	}
}

func TestNormalize_DegenerateRange(t *testing.T) {
	// min == max == 5: magnitudes above min map to 1, at or below to 0.
	attr := mesh.Scalar([]float32{7, 5, 3})
	res, err := Normalize(attr, 3, Policy{Range: Range{5, 5}})
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{1, 0, 0}
	for i, w := range want {
		got := res.Channel[i][0]
		if math.IsNaN(float64(got)) || got != w {
			t.Errorf("element %d: got %f, want %f", i, got, w)
		}
	}
}

func TestNormalize_RealValueVerbatim(t *testing.T) {
	attr := mesh.Attribute{Shape: []int{3, 2}, Data: []float32{1.5, -2, 300, 4, -0.25, 6}}
	res, err := Normalize(attr, 3, Policy{RealValue: true, Range: Range{0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		row := attr.Row(i)
		for c := 0; c < 2; c++ {
			if res.Channel[i][c] != row[c] {
				t.Errorf("element %d comp %d: got %f, want %f", i, c, res.Channel[i][c], row[c])
			}
		}
		if res.Channel[i][2] != 0 {
			t.Errorf("element %d: unused component should be zero", i)
		}
	}
	if res.HasObserved {
		t.Error("real value policy should not record an observed range")
	}
}

func TestNormalize_EmptyFrame(t *testing.T) {
	res, err := Normalize(mesh.Scalar(nil), 0, Policy{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Channel) != 0 || res.HasObserved {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestNormalize_NonFiniteSkippedFromObserved(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	res, err := Normalize(mesh.Scalar([]float32{nan}), 1, Policy{Range: Range{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasObserved {
		t.Errorf("all-NaN frame should not report a range, got %+v", res.Observed)
	}
	if res.Channel[0][0] != 0 {
		t.Errorf("NaN magnitude: got %f, want 0", res.Channel[0][0])
	}

	res, err = Normalize(mesh.Scalar([]float32{nan, 0.5, inf, 0.25}), 4, Policy{Range: Range{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasObserved || res.Observed != (Range{0.25, 0.5}) {
		t.Errorf("observed: got %+v ok=%v, want {0.25 0.5}", res.Observed, res.HasObserved)
	}
}

func TestZero(t *testing.T) {
	z := Zero(5)
	if len(z) != 5 {
		t.Fatalf("got %d rows", len(z))
	}
	for _, v := range z {
		if v != [3]float32{} {
			t.Errorf("expected zero row, got %v", v)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{-1, 0},
		{0.25, 0.25},
		{3, 1},
		{float32(math.Inf(1)), 1},
		{float32(math.Inf(-1)), 0},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%f): got %f, want %f", tt.in, got, tt.want)
		}
	}
}
