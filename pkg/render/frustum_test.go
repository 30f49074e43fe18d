package render

import (
	"math"
	"testing"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

func testProjection(near, far float64) math3d.Mat4 {
	return math3d.PerspectiveFov(math.Pi/3, 16.0/9.0, near, far)
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}

	size := box.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}

	halfSize := box.HalfSize()
	if halfSize.X != 1 || halfSize.Y != 2 || halfSize.Z != 3 {
		t.Errorf("halfSize = %v, want (1, 2, 3)", halfSize)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner", math3d.V3(0, 0, 0), true},
		{"outside x", math3d.V3(11, 5, 5), false},
		{"outside negative", math3d.V3(-1, 5, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		transformed := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))

		if transformed.Min.X != 9 || transformed.Min.Y != 19 || transformed.Min.Z != 29 {
			t.Errorf("translated min = %v, want (9, 19, 29)", transformed.Min)
		}
		if transformed.Max.X != 11 || transformed.Max.Y != 21 || transformed.Max.Z != 31 {
			t.Errorf("translated max = %v, want (11, 21, 31)", transformed.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		transformed := box.Transform(math3d.ScaleUniform(2.0))

		if transformed.Min.X != -2 || transformed.Min.Y != -2 || transformed.Min.Z != -2 {
			t.Errorf("scaled min = %v, want (-2, -2, -2)", transformed.Min)
		}
		if transformed.Max.X != 2 || transformed.Max.Y != 2 || transformed.Max.Z != 2 {
			t.Errorf("scaled max = %v, want (2, 2, 2)", transformed.Max)
		}
	})

	t.Run("rotation", func(t *testing.T) {
		transformed := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math3d.V3(math.Sqrt2, 1, math.Sqrt2)
		if !transformed.Max.Equals(want) || !transformed.Min.Equals(want.Negate()) {
			t.Errorf("rotated box = %v..%v, want ±%v", transformed.Min, transformed.Max, want)
		}
	})
}

func TestFrustumPlanesNormalized(t *testing.T) {
	frustum := NewFrustumFromMatrix(testProjection(0.1, 100))

	for i, plane := range frustum.Planes {
		if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	// Camera at origin looking down +Z.
	frustum := NewFrustumFromMatrix(testProjection(0.1, 100))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, 1), true},
		{"center mid", math3d.V3(0, 0, 50), true},
		{"center far", math3d.V3(0, 0, 99), true},
		{"behind camera", math3d.V3(0, 0, -1), false},
		{"too far", math3d.V3(0, 0, 200), false},
		{"too close", math3d.V3(0, 0, 0.01), false},
		{"above top", math3d.V3(0, 10, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumMatchesClipVolume(t *testing.T) {
	view := math3d.LookAt(math3d.V3(0, 1, -4), math3d.Zero3(), math3d.Up())
	m := math3d.RotateY(0.3).Mul(view).Mul(testProjection(1, 20))
	frustum := NewFrustumFromMatrix(m)

	points := []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(3, 0, 0), math3d.V3(0, 0, -3.5),
		math3d.V3(0, 0, 30), math3d.V3(-2, 2, 1), math3d.V3(10, 0, 2),
	}
	for _, p := range points {
		want := insideClipVolume(math3d.V4FromV3(p, 1).Transform(m))
		if got := frustum.ContainsPoint(p); got != want {
			t.Errorf("ContainsPoint(%v) = %v, clip volume says %v", p, got, want)
		}
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := NewFrustumFromMatrix(testProjection(1, 100))

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{
			"fully inside",
			NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)),
			true,
		},
		{
			"partially visible",
			NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), // Crosses near plane and goes behind
			true,
		},
		{
			"behind camera",
			NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)),
			false,
		},
		{
			"beyond far plane",
			NewAABB(math3d.V3(-1, -1, 120), math3d.V3(1, 1, 150)),
			false,
		},
		{
			"far to the right",
			NewAABB(math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)),
			false,
		},
		{
			"large box containing frustum",
			NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)),
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumContainsAABB(t *testing.T) {
	frustum := NewFrustumFromMatrix(testProjection(1, 100))

	inside := NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10))
	if !frustum.ContainsAABB(inside) {
		t.Error("box well inside the frustum should be contained")
	}
	straddling := NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2))
	if frustum.ContainsAABB(straddling) {
		t.Error("box crossing the near plane should not be contained")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	frustum := NewFrustumFromMatrix(testProjection(1, 100))

	tests := []struct {
		name     string
		center   math3d.Vec3
		radius   float64
		expected bool
	}{
		{"inside", math3d.V3(0, 0, 10), 1.0, true},
		{"partially visible", math3d.V3(0, 0, 0.5), 1.0, true}, // Near the near plane
		{"behind", math3d.V3(0, 0, -5), 1.0, false},
		{"far behind", math3d.V3(0, 0, -20), 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	// Camera at origin looking along +X.
	view := math3d.LookAt(math3d.Zero3(), math3d.V3(10, 0, 0), math3d.Up())
	frustum := NewFrustumFromMatrix(view.Mul(math3d.PerspectiveFov(math.Pi/3, 1.0, 1.0, 100.0)))

	if !frustum.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func TestDeviceIsVisible(t *testing.T) {
	d := NewDevice(64, 48)
	d.SetTransform(TransformView, math3d.LookAt(math3d.V3(0, 0, -5), math3d.Zero3(), math3d.Up()))
	d.SetTransform(TransformProjection, math3d.PerspectiveFov(math.Pi/2, 4.0/3.0, 1, 100))

	unit := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	if !d.IsVisible(unit) {
		t.Error("unit box at the origin should be visible")
	}

	d.SetTransform(TransformWorld, math3d.Translate(math3d.V3(0, 0, -20)))
	if d.IsVisible(unit) {
		t.Error("box moved behind the camera should not be visible")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := NewFrustumFromMatrix(testProjection(0.1, 1000))
	box := NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10))

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	view := math3d.LookAt(math3d.V3(0, 10, -20), math3d.Zero3(), math3d.Up())
	viewProj := view.Mul(testProjection(0.1, 1000))

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	trans := math3d.RotateY(0.5).Mul(math3d.Translate(math3d.V3(10, 0, 0)))

	for b.Loop() {
		_ = box.Transform(trans)
	}
}
