package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestFloatEquals(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{1, 1, true},
		{1, 1.0009, true},
		{1, 1.002, false},
		{-0.0005, 0.0004, true},
		{0, 0.01, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, FloatEquals(tt.a, tt.b), "FloatEquals(%v, %v)", tt.a, tt.b)
	}
}

func TestNormalize(t *testing.T) {
	vectors := []Vec3{V3(3, 4, 0), V3(-1, 2, -3), V3(0, 0, 0.01), V3(1e6, 1, 1)}
	for _, v := range vectors {
		n := v.Normalize()
		assert.InDelta(t, 1, n.Len(), 1e-12, "unit length for %v", v)
		assert.True(t, n.Normalize().Equals(n), "idempotent for %v", v)

		want := mgl64.Vec3{v.X, v.Y, v.Z}.Normalize()
		assert.InDelta(t, want[0], n.X, 1e-12)
		assert.InDelta(t, want[1], n.Y, 1e-12)
		assert.InDelta(t, want[2], n.Z, 1e-12)
	}
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Zero3(), Zero3().Normalize())
}

func TestCross(t *testing.T) {
	assert.Equal(t, V3(0, 0, 1), Right().Cross(Up()))
	assert.Equal(t, V3(0, 0, -1), Up().Cross(Right()))

	a, b := V3(1, 2, 3), V3(-4, 5, 0.5)
	c := a.Cross(b)
	want := mgl64.Vec3{a.X, a.Y, a.Z}.Cross(mgl64.Vec3{b.X, b.Y, b.Z})
	assert.Equal(t, Vec3{want[0], want[1], want[2]}, c)
	assert.InDelta(t, 0, c.Dot(a), 1e-12)
	assert.InDelta(t, 0, c.Dot(b), 1e-12)
}

func TestVec3Arithmetic(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, 5, 6)
	assert.Equal(t, V3(5, 7, 9), a.Add(b))
	assert.Equal(t, V3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, V3(4, 10, 18), a.Mul(b))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, V3(2.5, 3.5, 4.5), a.Lerp(b, 0.5))
	assert.Equal(t, V3(1, 2, 3), a.Min(b))
	assert.Equal(t, V3(4, 5, 6), a.Max(b))
	assert.InDelta(t, math.Sqrt(27), a.Distance(b), 1e-12)
}

func TestVec3Equals(t *testing.T) {
	assert.True(t, V3(1, 2, 3).Equals(V3(1.0005, 2, 2.9995)))
	assert.False(t, V3(1, 2, 3).Equals(V3(1.002, 2, 3)))
}

func TestVec2(t *testing.T) {
	a, b := V2(0, 1), V2(1, 0)
	assert.Equal(t, V2(1, 1), a.Add(b))
	assert.Equal(t, V2(0.5, 0.5), a.Lerp(b, 0.5))
	assert.True(t, a.Scale(2).Sub(a).Equals(a))
}

func TestPlaneDotCoord(t *testing.T) {
	p := PlaneFromPointNormal(V3(0, 2, 0), Up())
	assert.Equal(t, 3.0, p.DotCoord(V3(7, 5, -1)))
	assert.Equal(t, -2.0, p.DotCoord(V3(0, 0, 0)))
	assert.Equal(t, 0.0, p.DotCoord(V3(1, 2, 3)))

	scaled := NewPlane(0, 2, 0, -4).Normalize()
	assert.Equal(t, p, scaled)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}
