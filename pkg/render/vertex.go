package render

import "github.com/taigrr/fixpipe/pkg/math3d"

// Vertex is one entry of a vertex stream.
//
// Position.W is 1 for every vertex built with NewVertex. The pipeline never
// writes it back; the clip-space w it derives is carried separately.
type Vertex struct {
	Position math3d.Vec4 // Object-space position
	Normal   math3d.Vec3 // Object-space normal (for lighting)
	Color    Color       // Vertex color
	UV       math3d.Vec2 // Texture coordinates, v=0 at the bottom of the image
}

// NewVertex creates a vertex at (x, y, z) with w=1 and white color.
func NewVertex(x, y, z float64) Vertex {
	return Vertex{
		Position: math3d.V4(x, y, z, 1),
		Color:    ColorWhite,
	}
}

// WithColor returns a copy with the color replaced.
func (v Vertex) WithColor(c Color) Vertex {
	v.Color = c
	return v
}

// WithNormal returns a copy with the normal replaced.
func (v Vertex) WithNormal(n math3d.Vec3) Vertex {
	v.Normal = n
	return v
}

// WithUV returns a copy with the texture coordinates replaced.
func (v Vertex) WithUV(u, t float64) Vertex {
	v.UV = math3d.V2(u, t)
	return v
}

// rasterVertex is a vertex after viewport mapping, ready for scan conversion.
// x and y are pixel coordinates and z is the depth-buffer value. Every other
// attribute is premultiplied by w = 1/z_view so that it interpolates
// linearly in screen space; dividing by the interpolated w recovers it.
type rasterVertex struct {
	x, y, z, w float64
	color      Color
	normal     math3d.Vec3
	uv         math3d.Vec2
	light      Color
	view       math3d.Vec3
}

func (a rasterVertex) lerp(b rasterVertex, t float64) rasterVertex {
	return rasterVertex{
		x:      math3d.Lerp(a.x, b.x, t),
		y:      math3d.Lerp(a.y, b.y, t),
		z:      math3d.Lerp(a.z, b.z, t),
		w:      math3d.Lerp(a.w, b.w, t),
		color:  a.color.Lerp(b.color, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Lerp(b.uv, t),
		light:  a.light.Lerp(b.light, t),
		view:   a.view.Lerp(b.view, t),
	}
}

// gradient returns (b-a)/d, or the zero vertex when d is within Epsilon of 0.
func (a rasterVertex) gradient(b rasterVertex, d float64) rasterVertex {
	if math3d.FloatEquals(d, 0) {
		return rasterVertex{}
	}
	inv := 1 / d
	return rasterVertex{
		x:      (b.x - a.x) * inv,
		y:      (b.y - a.y) * inv,
		z:      (b.z - a.z) * inv,
		w:      (b.w - a.w) * inv,
		color:  b.color.Sub(a.color).Scale(inv),
		normal: b.normal.Sub(a.normal).Scale(inv),
		uv:     b.uv.Sub(a.uv).Scale(inv),
		light:  b.light.Sub(a.light).Scale(inv),
		view:   b.view.Sub(a.view).Scale(inv),
	}
}

// advance returns a + step*n.
func (a rasterVertex) advance(step rasterVertex, n float64) rasterVertex {
	return rasterVertex{
		x:      a.x + step.x*n,
		y:      a.y + step.y*n,
		z:      a.z + step.z*n,
		w:      a.w + step.w*n,
		color:  a.color.Add(step.color.Scale(n)),
		normal: a.normal.Add(step.normal.Scale(n)),
		uv:     a.uv.Add(step.uv.Scale(n)),
		light:  a.light.Add(step.light.Scale(n)),
		view:   a.view.Add(step.view.Scale(n)),
	}
}
