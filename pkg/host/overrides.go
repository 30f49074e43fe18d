package host

import "github.com/taigrr/fixpipe/pkg/render"

// Overrides are render-mode toggles made at runtime. They survive a scene
// setup, which would otherwise restore the scene's own modes.
type Overrides struct {
	Wireframe bool
	Shade     *render.ShadeMode
	Lighting  *bool
}

// Apply re-applies every toggle to d.
func (o *Overrides) Apply(d *render.Device) {
	if o.Wireframe {
		d.SetRenderState(render.FillWireframe)
	}
	if o.Shade != nil {
		d.SetShadeMode(*o.Shade)
	}
	if o.Lighting != nil {
		d.LightEnable(*o.Lighting)
	}
}

// ToggleWireframe switches between wireframe and the scene's fill mode,
// given by name.
func (o *Overrides) ToggleWireframe(d *render.Device, sceneFill string) {
	o.Wireframe = !o.Wireframe
	if o.Wireframe {
		d.SetRenderState(render.FillWireframe)
		return
	}
	fill, err := render.ParseFillMode(sceneFill)
	if err != nil || fill == render.FillWireframe {
		fill = render.FillColor
	}
	d.SetRenderState(fill)
}

// CycleShade steps through flat, Gouraud and Phong shading.
func (o *Overrides) CycleShade(d *render.Device) {
	next := (d.ShadeMode() + 1) % (render.ShadePhong + 1)
	o.Shade = &next
	d.SetShadeMode(next)
}

// ToggleLighting flips the lighting switch.
func (o *Overrides) ToggleLighting(d *render.Device) {
	on := !d.LightEnabled()
	o.Lighting = &on
	d.LightEnable(on)
}
