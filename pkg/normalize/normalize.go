// Package normalize turns one per-point attribute into the three-channel
// array written to the color-carrier channel of a particle buffer.
package normalize

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/pointseq/pkg/mesh"
)

// MaxComponents is the widest attribute the carrier channel can hold.
const MaxComponents = 3

// Normalizer errors.
var (
	ErrTooManyDimensions = errors.New("attribute has too many dimensions")
	ErrLengthMismatch    = errors.New("attribute length does not match point count")
)

// Range is a closed value interval. Min <= Max is the caller's
// responsibility; it is not enforced here.
type Range struct {
	Min float32
	Max float32
}

// Policy selects how attribute values map onto the channel.
type Policy struct {
	// RealValue copies components verbatim instead of rescaling magnitudes.
	RealValue bool
	// Range rescales magnitudes when RealValue is false.
	Range Range
}

// Result holds the channel data and, for the magnitude policy, the
// observed magnitude range of this frame.
type Result struct {
	Channel [][3]float32
	// Observed is only set by the magnitude policy and is never used to
	// rescale; it exists for display. HasObserved is false when no point
	// had a finite magnitude.
	Observed    Range
	HasObserved bool
}

// Zero returns an all-zero channel for n points.
func Zero(n int) [][3]float32 {
	return make([][3]float32, n)
}

// Normalize reduces attr to an (n, 3) channel under policy. A rank-1
// attribute is treated as (n, 1). Rank 3 or more, or more than three
// components, fails with ErrTooManyDimensions.
func Normalize(attr mesh.Attribute, n int, policy Policy) (Result, error) {
	if attr.Rank() == 0 || attr.Rank() >= 3 {
		return Result{}, fmt.Errorf("%w: rank %d", ErrTooManyDimensions, attr.Rank())
	}
	b := attr.Components()
	if b > MaxComponents || b < 1 {
		return Result{}, fmt.Errorf("%w: %d components", ErrTooManyDimensions, b)
	}
	if attr.Len() != n {
		return Result{}, fmt.Errorf("%w: %d values for %d points", ErrLengthMismatch, attr.Len(), n)
	}
	if err := attr.Validate(); err != nil {
		return Result{}, err
	}

	if policy.RealValue {
		return Result{Channel: realValue(attr, n, b)}, nil
	}
	ch, observed, ok := magnitude(attr, n, b, policy.Range)
	return Result{Channel: ch, Observed: observed, HasObserved: ok}, nil
}

func realValue(attr mesh.Attribute, n, b int) [][3]float32 {
	out := Zero(n)
	for i := 0; i < n; i++ {
		copy(out[i][:b], attr.Data[i*b:(i+1)*b])
	}
	return out
}

// magnitude rescales per-point norms into [0, 1]. Only finite norms count
// towards the observed range; ok is false when there were none.
func magnitude(attr mesh.Attribute, n, b int, r Range) (out [][3]float32, observed Range, ok bool) {
	out = Zero(n)
	span := r.Max - r.Min

	for i := 0; i < n; i++ {
		var sq float32
		for _, v := range attr.Data[i*b : (i+1)*b] {
			sq += v * v
		}
		m := math32.Sqrt(sq)
		if !math32.IsNaN(m) && !math32.IsInf(m, 0) {
			if !ok {
				observed = Range{Min: m, Max: m}
				ok = true
			}
			observed.Min = min(observed.Min, m)
			observed.Max = max(observed.Max, m)
		}
		// span may be zero; Clamp handles the resulting Inf/NaN.
		out[i][0] = Clamp((m - r.Min) / span)
	}
	return out, observed, ok
}

// Clamp limits v to [0, 1]. NaN maps to 0, +Inf to 1 and -Inf to 0, so a
// degenerate range (Min == Max) yields 1 above Min and 0 at or below it.
func Clamp(v float32) float32 {
	switch {
	case math32.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
