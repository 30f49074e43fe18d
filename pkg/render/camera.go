package render

import (
	"math"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// Camera builds left-handed view and projection matrices from an eye point,
// a target and projection parameters. Use the setters so the cached
// matrices stay current.
type Camera struct {
	Position math3d.Vec3 // Eye point in world space
	Target   math3d.Vec3 // Point the camera looks at
	UpDir    math3d.Vec3 // World up hint

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	view, proj           math3d.Mat4
	viewDirty, projDirty bool
}

// NewCamera creates a camera at (0, 1, -4) looking at the origin with a 90
// degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 1, -4),
		Target:      math3d.Zero3(),
		UpDir:       math3d.Up(),
		FOV:         math.Pi / 2,
		AspectRatio: 4.0 / 3.0,
		Near:        1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition moves the eye point.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetTarget changes the look-at point.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far plane distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit vector to the camera's right.
func (c *Camera) Right() math3d.Vec3 {
	return c.UpDir.Cross(c.Forward()).Normalize()
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Forward().Cross(c.Right())
}

// Distance returns the distance from the eye to the target.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.view = math3d.LookAt(c.Position, c.Target, c.UpDir)
		c.viewDirty = false
	}
	return c.view
}

// ProjectionMatrix returns the view-to-clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.proj = math3d.PerspectiveFov(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.proj
}

// ViewProjectionMatrix returns view*projection.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ViewMatrix().Mul(c.ProjectionMatrix())
}

// Apply loads the camera's view and projection into d.
func (c *Camera) Apply(d *Device) {
	d.SetTransform(TransformView, c.ViewMatrix())
	d.SetTransform(TransformProjection, c.ProjectionMatrix())
}

// MoveForward moves eye and target along the view direction.
func (c *Camera) MoveForward(distance float64) {
	c.translate(c.Forward().Scale(distance))
}

// MoveRight moves eye and target sideways.
func (c *Camera) MoveRight(distance float64) {
	c.translate(c.Right().Scale(distance))
}

// MoveUp moves eye and target along world up.
func (c *Camera) MoveUp(distance float64) {
	c.translate(c.UpDir.Normalize().Scale(distance))
}

func (c *Camera) translate(delta math3d.Vec3) {
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
	c.viewDirty = true
}

// maxPitch keeps the eye off the poles where LookAt degenerates.
const maxPitch = math.Pi/2 - 0.01

// Orbit places the eye on a sphere around the target. Yaw 0 and pitch 0 put
// the eye on the target's -Z side; positive pitch raises it.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	pitch = math3d.Clamp(pitch, -maxPitch, maxPitch)
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw)*math.Cos(pitch),
	)
	c.SetPosition(c.Target.Add(offset.Scale(distance)))
}

// WorldToScreen projects a world point onto a width×height screen. It
// returns false for points outside the clip volume.
func (c *Camera) WorldToScreen(world math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := math3d.V4FromV3(world, 1).Transform(c.ViewProjectionMatrix())
	if !insideClipVolume(clip) || clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, ndc.Z, true
}
