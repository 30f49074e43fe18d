package math3d

// Plane is the set of points p with Normal·p + D == 0.
type Plane struct {
	Normal Vec3
	D      float64
}

// NewPlane builds a plane from its four coefficients.
func NewPlane(a, b, c, d float64) Plane {
	return Plane{Normal: V3(a, b, c), D: d}
}

// PlaneFromPointNormal builds the plane through point with the given normal.
func PlaneFromPointNormal(point, normal Vec3) Plane {
	return Plane{Normal: normal, D: -normal.Dot(point)}
}

// DotCoord returns the signed distance of point from the plane, scaled by
// the length of Normal. Positive is the side the normal points to.
func (p Plane) DotCoord(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// DotNormal returns Normal·v, ignoring D.
func (p Plane) DotNormal(v Vec3) float64 {
	return p.Normal.Dot(v)
}

// Normalize scales the plane so the normal has unit length.
// A plane with a zero normal is returned unchanged.
func (p Plane) Normalize() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	inv := 1 / l
	return Plane{Normal: p.Normal.Scale(inv), D: p.D * inv}
}
