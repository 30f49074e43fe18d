package render

import (
	"math"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// LightColor evaluates the lighting equation for one view-space fragment:
//
//	emissive + ambient*lightAmbient + attenuation*spot*(diffuse + specular)
//
// n need not be unit length. When attenuation or the spot factor is zero
// only the emissive and ambient terms contribute.
func (d *Device) LightColor(n, pos math3d.Vec3) Color {
	m, l := &d.material, &d.light

	c := m.Emissive.Add(m.Ambient.Mul(l.Ambient))

	att := d.attenuation(pos)
	spot := d.spotFactor(pos)
	if math3d.FloatEquals(att, 0) || math3d.FloatEquals(spot, 0) {
		return c
	}

	n = n.Normalize()
	dir := d.lightDirection(pos)
	ndotl := n.Dot(dir)

	diffuse := m.Diffuse.Mul(l.Diffuse).Scale(math.Max(0, ndotl))

	var specular Color
	if ndotl > 0 {
		half := pos.Negate().Normalize().Add(dir).Normalize()
		specular = m.Specular.Mul(l.Specular).Scale(math.Pow(math.Max(0, n.Dot(half)), m.Power))
	}

	return c.Add(diffuse.Add(specular).Scale(att * spot))
}

// lightDirection returns the unit vector from the fragment towards the light
// in view space.
func (d *Device) lightDirection(pos math3d.Vec3) math3d.Vec3 {
	if d.light.Type == LightDirectional {
		return d.lightDir.Negate()
	}
	return d.lightPos.Sub(pos).Normalize()
}

// attenuation is 1 for directional lights. Point and spot lights fall off
// with distance and contribute nothing beyond Range.
func (d *Device) attenuation(pos math3d.Vec3) float64 {
	l := &d.light
	if l.Type == LightDirectional {
		return 1
	}
	dist := d.lightPos.Distance(pos)
	if dist > l.Range {
		return 0
	}
	return 1 / (l.Attenuation0 + l.Attenuation1*dist + l.Attenuation2*dist*dist)
}

// spotFactor is 1 inside the inner cone, 0 at or outside the outer cone and
// follows ((cos-cosPhi)/(cosTheta-cosPhi))^Falloff across the penumbra.
func (d *Device) spotFactor(pos math3d.Vec3) float64 {
	l := &d.light
	if l.Type != LightSpot {
		return 1
	}
	cosine := d.lightDir.Dot(pos.Sub(d.lightPos).Normalize())
	cosTheta := math.Cos(l.Theta * 0.5)
	cosPhi := math.Cos(l.Phi * 0.5)
	switch {
	case cosine > cosTheta:
		return 1
	case cosine <= cosPhi:
		return 0
	}
	return math.Pow((cosine-cosPhi)/(cosTheta-cosPhi), l.Falloff)
}

// updateLightSpace caches the light's position and direction in view space.
// It runs whenever the light or the view transform changes.
func (d *Device) updateLightSpace() {
	// Positions are points (w=1) so the view translation applies.
	d.lightPos = d.light.Position.Transform(d.view)
	d.lightDir = d.light.Direction.TransformDir(d.view).Normalize()
}
