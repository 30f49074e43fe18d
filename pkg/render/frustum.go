package render

import (
	"math"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]math3d.Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a combined
// world*view*projection matrix using the Gribb/Hartmann method. The planes
// live in the space the matrix maps from, so passing world*view*proj yields
// object-space planes.
//
// With row vectors, clip = v*M, so clip component j is v dotted with column
// j of M. The clip volume is -w<=x<=w, -w<=y<=w, 0<=z<=w.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	col := func(j int) math3d.Vec4 {
		return math3d.V4(m[j], m[4+j], m[8+j], m[12+j])
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)
	plane := func(v math3d.Vec4) math3d.Plane {
		return math3d.NewPlane(v.X, v.Y, v.Z, v.W).Normalize()
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(c3.Add(c0))
	f.Planes[FrustumRight] = plane(c3.Sub(c0))
	f.Planes[FrustumBottom] = plane(c3.Add(c1))
	f.Planes[FrustumTop] = plane(c3.Sub(c1))
	f.Planes[FrustumNear] = plane(c2)
	f.Planes[FrustumFar] = plane(c3.Sub(c2))
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b AABB) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// Transform returns the smallest AABB holding the box after the affine
// transform m. The center moves as a point; each new half extent sums the
// old ones weighted by the absolute linear part of m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	c := m.MulVec3(b.Center())
	e := b.HalfSize()
	in := [3]float64{e.X, e.Y, e.Z}
	var out [3]float64
	for j := range 3 {
		for i := range 3 {
			out[j] += math.Abs(m[i*4+j]) * in[i]
		}
	}
	ext := math3d.V3(out[0], out[1], out[2])
	return AABB{Min: c.Sub(ext), Max: c.Add(ext)}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// The corner furthest along the plane normal. If even it is
		// outside, the whole box is.
		p := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DotCoord(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB tests if the AABB is completely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, plane := range f.Planes {
		n := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			selectComponent(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			selectComponent(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.DotCoord(n) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DotCoord(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere intersects the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, plane := range f.Planes {
		if plane.DotCoord(center) < -radius {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
