package host

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

// Axis is one orbit angle whose velocity decays smoothly to zero.
type Axis struct {
	Position float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64 // spring velocity of Velocity
}

// NewAxis creates an axis stepped fps times per second.
func NewAxis(fps int) Axis {
	return Axis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies the velocity and decays it toward 0.
func (a *Axis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Orbit moves a camera around its target. Impulses spin the yaw and pitch
// axes, and zoom eases the distance toward a goal.
type Orbit struct {
	Yaw, Pitch Axis
	Distance   float64

	MinDistance, MaxDistance float64

	goal     float64
	zoomVel  float64
	zoom     harmonica.Spring
	fps      int
	home     [3]float64 // yaw, pitch, distance
	maxPitch float64
}

// NewOrbit picks up the camera's current placement relative to its target,
// so the first Update leaves the camera where it is. Update is expected fps
// times per second; fps <= 0 means 60.
func NewOrbit(cam *render.Camera, fps int) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	offset := cam.Position.Sub(cam.Target)
	dist := offset.Len()
	var yaw, pitch float64
	if dist > math3d.Epsilon {
		pitch = math.Asin(math3d.Clamp(offset.Y/dist, -1, 1))
		yaw = math.Atan2(offset.X, -offset.Z)
	}

	o := &Orbit{
		MinDistance: 1,
		MaxDistance: 50,
		fps:         fps,
		home:        [3]float64{yaw, pitch, dist},
		maxPitch:    math.Pi/2 - 0.01,
	}
	o.MinDistance = math.Min(o.MinDistance, dist)
	o.MaxDistance = math.Max(o.MaxDistance, dist)
	o.Reset()
	return o
}

// Reset returns to the placement the orbit was created with.
func (o *Orbit) Reset() {
	o.Yaw = NewAxis(o.fps)
	o.Pitch = NewAxis(o.fps)
	o.Yaw.Position = o.home[0]
	o.Pitch.Position = o.home[1]
	o.Distance = o.home[2]
	o.goal = o.home[2]
	o.zoomVel = 0
	o.zoom = harmonica.NewSpring(harmonica.FPS(o.fps), 6.0, 1.0)
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Zoom moves the distance goal by delta, within [MinDistance, MaxDistance].
func (o *Orbit) Zoom(delta float64) {
	o.goal = math3d.Clamp(o.goal+delta, o.MinDistance, o.MaxDistance)
}

// Goal returns the distance the zoom is easing toward.
func (o *Orbit) Goal() float64 { return o.goal }

// Update steps the springs once and places cam.
func (o *Orbit) Update(cam *render.Camera) {
	o.Yaw.Update()
	o.Pitch.Update()
	if o.Pitch.Position > o.maxPitch || o.Pitch.Position < -o.maxPitch {
		o.Pitch.Position = math3d.Clamp(o.Pitch.Position, -o.maxPitch, o.maxPitch)
		o.Pitch.Velocity = 0
	}
	o.Yaw.Position = math.Remainder(o.Yaw.Position, 2*math.Pi)
	o.Distance, o.zoomVel = o.zoom.Update(o.Distance, o.zoomVel, o.goal)
	cam.Orbit(o.Yaw.Position, o.Pitch.Position, o.Distance)
}
