package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order and applied to row vectors.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform the first three rows hold the images of the X, Y
// and Z basis vectors and the fourth row holds the translation:
// | Xx Xy Xz 0 |
// | Yx Yy Yz 0 |
// | Zx Zy Zz 0 |
// | Tx Ty Tz 1 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt creates a left-handed view matrix looking from eye towards target.
// up must not be parallel to target-eye; the basis degenerates if it is.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize() // Forward
	r := up.Cross(f).Normalize()     // Right
	u := f.Cross(r)                  // Up (recomputed)

	return Mat4{
		r.X, u.X, f.X, 0,
		r.Y, u.Y, f.Y, 0,
		r.Z, u.Z, f.Z, 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// PerspectiveFov creates a left-handed perspective projection matrix.
// fovY is the vertical field of view in radians and aspect is width/height.
// View-space z in [near, far] maps to clip-space z in [0, w]. The caller
// must ensure 0 < near < far.
func PerspectiveFov(fovY, aspect, near, far float64) Mat4 {
	cot := 1.0 / math.Tan(fovY*0.5)
	q := far / (far - near)

	return Mat4{
		cot / aspect, 0, 0, 0,
		0, cot, 0, 0,
		0, 0, q, 1,
		0, 0, -q * near, 0,
	}
}

// Orthographic creates a left-handed off-center orthographic projection
// mapping z in [near, far] to [0, 1].
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -near * fn, 1,
	}
}

// Viewport maps normalized device coordinates to pixel coordinates.
// The y axis is flipped because screen rows grow downward; NDC depth
// [0, 1] maps to [minZ, maxZ].
func Viewport(x, y float64, width, height int, minZ, maxZ float64) Mat4 {
	halfW := float64(width) * 0.5
	halfH := float64(height) * 0.5

	return Mat4{
		halfW, 0, 0, 0,
		0, -halfH, 0, 0,
		0, 0, maxZ - minZ, 0,
		x + halfW, y + halfH, minZ, 1,
	}
}

// Mul multiplies two matrices: a * b. Applying the result to a row vector
// applies a first and then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	r := V4FromV3(v, 1).Transform(m)
	if r.W == 0 || r.W == 1 {
		return r.Vec3()
	}
	return r.Vec3().Div(r.W)
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return v.TransformDir(m)
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// minors returns the 2x2 sub-determinants of the top two rows (s) and the
// bottom two rows (c) that both Determinant and Inverse expand over.
func (m Mat4) minors() (s, c [6]float64) {
	s[0] = m[0]*m[5] - m[4]*m[1]
	s[1] = m[0]*m[6] - m[4]*m[2]
	s[2] = m[0]*m[7] - m[4]*m[3]
	s[3] = m[1]*m[6] - m[5]*m[2]
	s[4] = m[1]*m[7] - m[5]*m[3]
	s[5] = m[2]*m[7] - m[6]*m[3]

	c[0] = m[8]*m[13] - m[12]*m[9]
	c[1] = m[8]*m[14] - m[12]*m[10]
	c[2] = m[8]*m[15] - m[12]*m[11]
	c[3] = m[9]*m[14] - m[13]*m[10]
	c[4] = m[9]*m[15] - m[13]*m[11]
	c[5] = m[10]*m[15] - m[14]*m[11]
	return s, c
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	s, c := m.minors()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat4) Inverse() Mat4 {
	s, c := m.minors()
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if det == 0 {
		return Identity()
	}
	inv := 1.0 / det

	return Mat4{
		(m[5]*c[5] - m[6]*c[4] + m[7]*c[3]) * inv,
		(-m[1]*c[5] + m[2]*c[4] - m[3]*c[3]) * inv,
		(m[13]*s[5] - m[14]*s[4] + m[15]*s[3]) * inv,
		(-m[9]*s[5] + m[10]*s[4] - m[11]*s[3]) * inv,

		(-m[4]*c[5] + m[6]*c[2] - m[7]*c[1]) * inv,
		(m[0]*c[5] - m[2]*c[2] + m[3]*c[1]) * inv,
		(-m[12]*s[5] + m[14]*s[2] - m[15]*s[1]) * inv,
		(m[8]*s[5] - m[10]*s[2] + m[11]*s[1]) * inv,

		(m[4]*c[4] - m[5]*c[2] + m[7]*c[0]) * inv,
		(-m[0]*c[4] + m[1]*c[2] - m[3]*c[0]) * inv,
		(m[12]*s[4] - m[13]*s[2] + m[15]*s[0]) * inv,
		(-m[8]*s[4] + m[9]*s[2] - m[11]*s[0]) * inv,

		(-m[4]*c[3] + m[5]*c[1] - m[6]*c[0]) * inv,
		(m[0]*c[3] - m[1]*c[1] + m[2]*c[0]) * inv,
		(-m[12]*s[3] + m[13]*s[1] - m[14]*s[0]) * inv,
		(m[8]*s[3] - m[9]*s[1] + m[10]*s[0]) * inv,
	}
}

// NormalMatrix returns transpose(inverse(m)), the matrix that keeps normals
// perpendicular to surfaces under non-uniform scale.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row*4+col]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row*4+col] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Equals reports whether every element is within Epsilon of b.
func (m Mat4) Equals(b Mat4) bool {
	for i := range m {
		if !FloatEquals(m[i], b[i]) {
			return false
		}
	}
	return true
}
