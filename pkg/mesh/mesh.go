// Package mesh defines the in-memory result of loading one frame of a
// point sequence and the parser contract the loader depends on.
package mesh

import (
	"errors"
	"fmt"
	"sort"
)

// Mesh errors.
var (
	ErrShapeMismatch = errors.New("attribute data does not match its shape")
)

// Attribute is a named per-point array stored flat in row-major order.
// Shape holds the array dimensions, e.g. (N) for scalars or (N, 3) for
// vectors; len(Shape) is the rank.
type Attribute struct {
	Shape []int
	Data  []float32
}

// Scalar returns a rank-1 attribute with one value per point.
func Scalar(values []float32) Attribute {
	return Attribute{Shape: []int{len(values)}, Data: values}
}

// Vectors returns a rank-2 attribute of shape (len(values), 3).
func Vectors(values [][3]float32) Attribute {
	data := make([]float32, 0, len(values)*3)
	for _, v := range values {
		data = append(data, v[0], v[1], v[2])
	}
	return Attribute{Shape: []int{len(values), 3}, Data: data}
}

// Rank returns the number of dimensions.
func (a Attribute) Rank() int {
	return len(a.Shape)
}

// Len returns the number of elements along the first dimension.
func (a Attribute) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// Components returns the number of values per element: 1 for rank-1 data,
// Shape[1] for rank-2 data and the product of trailing dimensions otherwise.
func (a Attribute) Components() int {
	if len(a.Shape) <= 1 {
		return 1
	}
	n := 1
	for _, d := range a.Shape[1:] {
		n *= d
	}
	return n
}

// Validate checks that Data holds exactly the number of values Shape implies.
func (a Attribute) Validate() error {
	want := 1
	for _, d := range a.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension %d", ErrShapeMismatch, d)
		}
		want *= d
	}
	if len(a.Shape) == 0 {
		want = 0
	}
	if len(a.Data) != want {
		return fmt.Errorf("%w: shape %v wants %d values, got %d", ErrShapeMismatch, a.Shape, want, len(a.Data))
	}
	return nil
}

// Row returns the values of element i.
func (a Attribute) Row(i int) []float32 {
	b := a.Components()
	return a.Data[i*b : (i+1)*b]
}

// Mesh is one parsed frame: point positions plus named per-point attributes.
type Mesh struct {
	Points    [][3]float32
	PointData map[string]Attribute
}

// PointCount returns the number of points.
func (m *Mesh) PointCount() int {
	return len(m.Points)
}

// AttributeNames returns the point data names in sorted order.
func (m *Mesh) AttributeNames() []string {
	names := make([]string, 0, len(m.PointData))
	for name := range m.PointData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attribute looks up a named attribute.
func (m *Mesh) Attribute(name string) (Attribute, bool) {
	a, ok := m.PointData[name]
	return a, ok
}
