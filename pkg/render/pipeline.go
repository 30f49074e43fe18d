package render

import (
	"math"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// pipeline holds the matrices composed once per draw call.
type pipeline struct {
	d         *Device
	worldView math3d.Mat4
	normal    math3d.Mat4
	clip      math3d.Mat4
}

func (d *Device) newPipeline() *pipeline {
	wv := d.world.Mul(d.view)
	return &pipeline{
		d:         d,
		worldView: wv,
		normal:    wv.NormalMatrix(),
		clip:      wv.Mul(d.proj),
	}
}

// insideClipVolume reports whether a clip-space point lies in
// [-w,w]×[-w,w]×[0,w].
func insideClipVolume(v math3d.Vec4) bool {
	return v.X >= -v.W && v.X <= v.W &&
		v.Y >= -v.W && v.Y <= v.W &&
		v.Z >= 0 && v.Z <= v.W
}

// frontFacing reports whether a triangle in normalized device coordinates is
// wound clockwise with a signed area above Epsilon.
func frontFacing(p1, p2, p3 math3d.Vec4) bool {
	return (p1.Y-p3.Y)*(p2.X-p3.X)+(p2.Y-p3.Y)*(p3.X-p1.X) > math3d.Epsilon
}

// triangle runs one triangle through the pipeline.
func (p *pipeline) triangle(v1, v2, v3 *Vertex) {
	d := p.d
	d.stats.Triangles++
	in := [3]*Vertex{v1, v2, v3}

	// View-space positions and normals for lighting.
	var (
		viewPos [3]math3d.Vec3
		normals [3]math3d.Vec3
		lit     [3]Color
	)
	if d.lighting {
		for i, v := range in {
			viewPos[i] = v.Position.Transform(p.worldView).Vec3()
			normals[i] = v.Normal.TransformDir(p.normal)
			if d.shadeMode != ShadePhong {
				lit[i] = d.LightColor(normals[i], viewPos[i])
			}
		}
	}

	var clip [3]math3d.Vec4
	for i, v := range in {
		clip[i] = v.Position.Transform(p.clip)
		// Whole-triangle reject; straddling triangles are not clipped.
		if !insideClipVolume(clip[i]) {
			d.stats.Clipped++
			return
		}
	}

	// View depth, captured before the divide.
	var depth [3]float64
	var ndc [3]math3d.Vec4
	for i := range clip {
		depth[i] = clip[i].W
		ndc[i] = clip[i].PerspectiveDivide()
	}

	if d.fillMode != FillWireframe && !frontFacing(ndc[0], ndc[1], ndc[2]) {
		d.stats.Culled++
		return
	}

	var screen [3]math3d.Vec4
	for i := range ndc {
		screen[i] = ndc[i].Transform(d.viewport)
	}

	if d.fillMode == FillWireframe {
		d.stats.Drawn++
		for i := range screen {
			a, b := screen[i], screen[(i+1)%3]
			d.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), d.lineColor)
		}
		return
	}

	s1, s2, s3 := screen[0], screen[1], screen[2]
	if (math3d.FloatEquals(s1.Y, s2.Y) && math3d.FloatEquals(s2.Y, s3.Y)) ||
		(math3d.FloatEquals(s1.X, s2.X) && math3d.FloatEquals(s2.X, s3.X)) {
		d.stats.Degenerate++
		return
	}

	var rv [3]rasterVertex
	for i, v := range in {
		src := i
		if d.shadeMode == ShadeFlat {
			// Flat shading takes color and light from the first vertex.
			src = 0
		}
		w := 1 / depth[i]
		rv[i] = rasterVertex{
			x:      screen[i].X,
			y:      screen[i].Y,
			z:      screen[i].Z,
			w:      w,
			color:  in[src].Color.Scale(w),
			normal: normals[i].Scale(w),
			uv:     v.UV.Scale(w),
			light:  lit[src].Scale(w),
			view:   viewPos[i].Scale(w),
		}
	}

	// Sort by y, top first.
	if rv[1].y < rv[0].y {
		rv[0], rv[1] = rv[1], rv[0]
	}
	if rv[2].y < rv[1].y {
		rv[1], rv[2] = rv[2], rv[1]
	}
	if rv[1].y < rv[0].y {
		rv[0], rv[1] = rv[1], rv[0]
	}

	d.stats.Drawn++
	d.fillTriangle(&rv[0], &rv[1], &rv[2])
}

// fillTriangle scan-converts a y-sorted triangle by splitting it into a
// flat-bottom part above the middle vertex and a flat-top part below it.
func (d *Device) fillTriangle(v1, v2, v3 *rasterVertex) {
	switch {
	case math3d.FloatEquals(v1.y, v2.y):
		if math3d.FloatEquals(v1.x, v2.x) {
			return
		}
		if v1.x < v2.x {
			d.fillFlatTop(v1, v2, v3)
		} else {
			d.fillFlatTop(v2, v1, v3)
		}

	case math3d.FloatEquals(v2.y, v3.y):
		if math3d.FloatEquals(v2.x, v3.x) {
			return
		}
		if v2.x < v3.x {
			d.fillFlatBottom(v1, v2, v3)
		} else {
			d.fillFlatBottom(v1, v3, v2)
		}

	default:
		split := v1.lerp(*v3, (v2.y-v1.y)/(v3.y-v1.y))
		if math3d.FloatEquals(split.x, v2.x) {
			return
		}
		if split.x < v2.x {
			d.fillFlatBottom(v1, &split, v2)
			d.fillFlatTop(&split, v2, v3)
		} else {
			d.fillFlatBottom(v1, v2, &split)
			d.fillFlatTop(v2, &split, v3)
		}
	}
}

// fillFlatTop fills a triangle whose top edge v1→v2 is horizontal, with
// v1 left of v2 and v3 below.
func (d *Device) fillFlatTop(v1, v2, v3 *rasterVertex) {
	top, bottom := d.rowSpan(v1.y, v3.y)
	for y := top; y < bottom; y++ {
		fy := float64(y)
		// Each row is interpolated from the vertices rather than
		// accumulated, so rounding error cannot push ceil across a row.
		left := v1.lerp(*v3, (fy-v1.y)/(v3.y-v1.y))
		right := v2.lerp(*v3, (fy-v2.y)/(v3.y-v2.y))
		d.scanline(&left, &right, y)
	}
}

// fillFlatBottom fills a triangle whose bottom edge v2→v3 is horizontal,
// with v2 left of v3 and v1 above.
func (d *Device) fillFlatBottom(v1, v2, v3 *rasterVertex) {
	top, bottom := d.rowSpan(v1.y, v2.y)
	for y := top; y < bottom; y++ {
		fy := float64(y)
		left := v1.lerp(*v2, (fy-v1.y)/(v2.y-v1.y))
		right := v1.lerp(*v3, (fy-v1.y)/(v3.y-v1.y))
		d.scanline(&left, &right, y)
	}
}

// rowSpan returns the rows [ceil(y0), ceil(y1)) clamped to the buffer.
func (d *Device) rowSpan(y0, y1 float64) (int, int) {
	top := max(int(math.Ceil(y0)), 0)
	bottom := min(int(math.Ceil(y1)), d.height)
	return top, bottom
}

// scanline shades pixels [ceil(left.x), ceil(right.x)) of row y.
func (d *Device) scanline(left, right *rasterVertex, y int) {
	start := int(math.Ceil(left.x))
	end := min(int(math.Ceil(right.x)), d.width)
	step := left.gradient(*right, right.x-left.x)

	// Pre-step from the edge to the first pixel center covered.
	if start < 0 {
		start = 0
	}
	v := left.advance(step, float64(start)-left.x)

	row := y * d.width
	for x := start; x < end; x++ {
		idx := row + x
		if v.z < d.depth[idx] {
			d.depth[idx] = v.z
			d.fb.Pixels[idx] = d.shade(&v).Pack()
			d.stats.Pixels++
		}
		v = v.advance(step, 1)
	}
}

// shade computes the color of one fragment.
func (d *Device) shade(v *rasterVertex) Color {
	z := 1 / v.w

	var base Color
	switch d.fillMode {
	case FillTexture:
		if d.texture == nil {
			base = ColorWhite
		} else {
			uv := v.uv.Scale(z)
			base = d.texture.Sample(uv.X, uv.Y)
		}
	default:
		base = v.color.Scale(z)
	}

	if !d.lighting {
		return base
	}

	var light Color
	if d.shadeMode == ShadePhong {
		light = d.LightColor(v.normal.Scale(z), v.view.Scale(z))
	} else {
		light = v.light.Scale(z)
	}
	return base.Mul(light)
}
