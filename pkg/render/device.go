// Package render implements the fixpipe software rasterizer.
//
// A Device owns a frame buffer and a depth buffer and holds retained
// fixed-function state: world, view and projection transforms, fill and
// shade modes, one material, one light and one texture. Draw calls push
// triangles from the bound vertex stream through transform, clip-volume
// rejection, back-face culling, viewport mapping and either Bresenham
// wireframe or perspective-correct scanline fill.
//
// A Device is not safe for concurrent use.
package render

import (
	"fmt"
	"slices"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// Presenter receives each finished frame.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(fb *Framebuffer) error

// Present calls f(fb).
func (f PresenterFunc) Present(fb *Framebuffer) error {
	return f(fb)
}

// Stats counts what happened to submitted triangles since the last
// ResetStats.
type Stats struct {
	Triangles  int // Submitted by draw calls
	Clipped    int // Rejected by the clip-volume test
	Culled     int // Rejected as back-facing or edge-on
	Degenerate int // Zero height or zero width on screen
	Drawn      int // Rasterized (filled or outlined)
	Pixels     int // Pixels that passed the depth test
}

// Device is the retained-state rasterizer.
type Device struct {
	width, height int
	fb            *Framebuffer
	depth         []float64

	world, view, proj math3d.Mat4
	viewport          math3d.Mat4

	fillMode  FillMode
	shadeMode ShadeMode
	lighting  bool
	lineColor uint32

	material Material
	light    Light
	texture  *Texture

	// Light position and direction in view space.
	lightPos, lightDir math3d.Vec3

	vertices []Vertex
	indices  []int

	presenter Presenter
	stats     Stats
}

// NewDevice creates a device with width×height buffers. The buffers are
// never resized. State defaults: identity transforms, color fill, Gouraud
// shading, lighting off, white wireframe lines and the default material.
func NewDevice(width, height int) *Device {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("render: invalid device size %dx%d", width, height))
	}
	d := &Device{
		width:     width,
		height:    height,
		fb:        NewFramebuffer(width, height),
		depth:     make([]float64, width*height),
		world:     math3d.Identity(),
		view:      math3d.Identity(),
		proj:      math3d.Identity(),
		viewport:  math3d.Viewport(0, 0, width, height, 0, 1),
		fillMode:  FillColor,
		shadeMode: ShadeGouraud,
		lineColor: ColorWhite.Pack(),
		material:  DefaultMaterial(),
	}
	d.updateLightSpace()
	Logger().Debug("render: device created", "width", width, "height", height)
	return d
}

// Width returns the frame buffer width in pixels.
func (d *Device) Width() int { return d.width }

// Height returns the frame buffer height in pixels.
func (d *Device) Height() int { return d.height }

// Clear fills the frame buffer with c and every depth entry with depth.
func (d *Device) Clear(c Color, depth float64) {
	d.fb.Clear(c.Pack())
	n := len(d.depth)
	d.depth[0] = depth
	for i := 1; i < n; i *= 2 {
		copy(d.depth[i:], d.depth[:i])
	}
}

// SetTransform replaces one of the transform slots.
func (d *Device) SetTransform(kind TransformKind, m math3d.Mat4) {
	switch kind {
	case TransformWorld:
		d.world = m
	case TransformView:
		d.view = m
		d.updateLightSpace()
	case TransformProjection:
		d.proj = m
	default:
		panic(fmt.Sprintf("render: SetTransform with unknown kind %v", kind))
	}
}

// Transform returns the matrix in a transform slot.
func (d *Device) Transform(kind TransformKind) math3d.Mat4 {
	switch kind {
	case TransformWorld:
		return d.world
	case TransformView:
		return d.view
	case TransformProjection:
		return d.proj
	}
	panic(fmt.Sprintf("render: Transform with unknown kind %v", kind))
}

// SetRenderState sets the fill mode.
func (d *Device) SetRenderState(mode FillMode) {
	d.fillMode = mode
}

// RenderState returns the fill mode.
func (d *Device) RenderState() FillMode { return d.fillMode }

// SetShadeMode sets the shading mode.
func (d *Device) SetShadeMode(mode ShadeMode) {
	d.shadeMode = mode
}

// ShadeMode returns the shading mode.
func (d *Device) ShadeMode() ShadeMode { return d.shadeMode }

// SetMaterial stores a copy of m.
func (d *Device) SetMaterial(m Material) {
	d.material = m
}

// Material returns the bound material.
func (d *Device) Material() Material { return d.material }

// SetLight stores a copy of l.
func (d *Device) SetLight(l Light) {
	d.light = l
	d.updateLightSpace()
}

// Light returns the bound light.
func (d *Device) Light() Light { return d.light }

// SetTexture binds a private copy of t. Later changes to t do not affect
// the device. Passing nil unbinds the texture.
func (d *Device) SetTexture(t *Texture) {
	if t == nil {
		d.texture = nil
		return
	}
	d.texture = t.Clone()
	Logger().Debug("render: texture bound", "width", t.Width, "height", t.Height)
}

// LightEnable turns lighting on or off for subsequent draws.
func (d *Device) LightEnable(on bool) {
	d.lighting = on
}

// LightEnabled reports whether lighting is on.
func (d *Device) LightEnabled() bool { return d.lighting }

// SetLineColor sets the wireframe line color.
func (d *Device) SetLineColor(c Color) {
	d.lineColor = c.Pack()
}

// SetStreamSource binds a copy of the vertex stream.
func (d *Device) SetStreamSource(vertices []Vertex) {
	d.vertices = slices.Clone(vertices)
}

// SetIndices binds a copy of the index buffer. Each consecutive triple of
// indices describes one triangle.
func (d *Device) SetIndices(indices []int) {
	d.indices = slices.Clone(indices)
}

// DrawPrimitive rasterizes triCount triangles read directly from the
// vertex stream, starting at vertex start.
//
// Panics if no stream is bound or the range exceeds it.
func (d *Device) DrawPrimitive(start, triCount int) {
	if d.vertices == nil {
		panic("render: DrawPrimitive with no stream source bound")
	}
	if start < 0 || triCount < 0 || start+triCount*3 > len(d.vertices) {
		panic(fmt.Sprintf("render: DrawPrimitive(%d, %d) out of range for %d vertices",
			start, triCount, len(d.vertices)))
	}
	p := d.newPipeline()
	for i := range triCount {
		base := start + i*3
		p.triangle(&d.vertices[base], &d.vertices[base+1], &d.vertices[base+2])
	}
}

// DrawIndexedPrimitive rasterizes triCount triangles whose vertices are
// looked up through the index buffer, starting at index start.
//
// Panics if no stream or index buffer is bound, or if an index is out of
// range.
func (d *Device) DrawIndexedPrimitive(start, triCount int) {
	if d.vertices == nil {
		panic("render: DrawIndexedPrimitive with no stream source bound")
	}
	if d.indices == nil {
		panic("render: DrawIndexedPrimitive with no index buffer bound")
	}
	if start < 0 || triCount < 0 || start+triCount*3 > len(d.indices) {
		panic(fmt.Sprintf("render: DrawIndexedPrimitive(%d, %d) out of range for %d indices",
			start, triCount, len(d.indices)))
	}
	p := d.newPipeline()
	n := len(d.vertices)
	for i := range triCount {
		tri := d.indices[start+i*3 : start+i*3+3]
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				panic(fmt.Sprintf("render: index %d out of range for %d vertices", idx, n))
			}
		}
		p.triangle(&d.vertices[tri[0]], &d.vertices[tri[1]], &d.vertices[tri[2]])
	}
}

// SetPresenter attaches the sink that Present hands frames to.
func (d *Device) SetPresenter(p Presenter) {
	d.presenter = p
	Logger().Debug("render: presenter attached", "presenter", fmt.Sprintf("%T", p))
}

// Present hands the frame buffer to the attached presenter. It is a no-op
// without one.
func (d *Device) Present() error {
	if d.presenter == nil {
		return nil
	}
	if err := d.presenter.Present(d.fb); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Framebuffer returns the device's frame buffer. The device keeps writing
// to it; callers that hold on to a frame must copy it.
func (d *Device) Framebuffer() *Framebuffer { return d.fb }

// Depth returns the depth buffer value at (x, y).
func (d *Device) Depth(x, y int) float64 {
	return d.depth[y*d.width+x]
}

// Stats returns the counters accumulated since the last ResetStats.
func (d *Device) Stats() Stats { return d.stats }

// ResetStats zeroes the counters.
func (d *Device) ResetStats() { d.stats = Stats{} }

// IsVisible reports whether an object-space bounding box, placed by the
// current world transform, intersects the view frustum. It is a coarse
// pre-draw test and never changes what the clip-volume test accepts.
func (d *Device) IsVisible(bounds AABB) bool {
	return NewFrustumFromMatrix(d.world.Mul(d.view).Mul(d.proj)).IntersectAABB(bounds)
}
