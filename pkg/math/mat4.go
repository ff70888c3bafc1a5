package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Applying m to a column vector p is the same as the row-vector product
// p * transpose(R) where R is the row-major form returned by Rows.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromRows builds a matrix from row-major rows, the layout host
// applications usually expose for object world matrices.
func FromRows(rows [4][4]float32) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[c*4+r] = rows[r][c]
		}
	}
	return m
}

// Rows returns the matrix as row-major rows.
func (m Mat4) Rows() [4][4]float32 {
	var rows [4][4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = m[c*4+r]
		}
	}
	return rows
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float32 {
	return m[c*4+r]
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Compose builds a translation * rotation * scale matrix. Euler angles are
// in radians and applied in XYZ order (X first).
func Compose(location, rotation, scale Vec3) Mat4 {
	rot := RotateZ(rotation.Z).Mul(RotateY(rotation.Y)).Mul(RotateX(rotation.X))
	return Translate(location.X, location.Y, location.Z).
		Mul(rot).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint augments p with w=1, multiplies and drops w.
// No perspective divide is performed; affine matrices keep w at 1.
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// Equal reports whether every element of m and other differ by at most eps.
func (m Mat4) Equal(other Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
