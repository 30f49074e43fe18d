package math3d

import "math"

// Epsilon is the tolerance used by FloatEquals and the vector Equals methods.
// The rasterizer uses the same value to reject edge-on and degenerate triangles.
const Epsilon = 0.001

// FloatEquals reports whether a and b differ by less than Epsilon.
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
