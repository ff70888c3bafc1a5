package math

// TransformPoints applies m to every point and returns a new slice.
// An empty input yields an empty, non-nil result.
func TransformPoints(points [][3]float32, m Mat4) [][3]float32 {
	out := make([][3]float32, len(points))
	for i, p := range points {
		out[i] = m.TransformPoint(p)
	}
	return out
}
