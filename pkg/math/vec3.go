// Package math provides the float32 vector and matrix types used to place
// point clouds in world space.
package math

import "github.com/chewxy/math32"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 converts a point array element to a Vec3.
func V3(p [3]float32) Vec3 {
	return Vec3{p[0], p[1], p[2]}
}

// Radians converts each component from degrees to radians.
func (v Vec3) Radians() Vec3 {
	const k = math32.Pi / 180
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}
