package models

import (
	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

// Cube returns the 2×2×2 cube centered on the origin with one color per
// corner and 8 shared vertices. It carries no normals; call
// CalculateSmoothNormals before lighting it.
func Cube() *Mesh {
	m := NewMesh("cube")
	corners := []struct {
		pos   math3d.Vec3
		color render.Color
	}{
		{math3d.V3(-1, 1, -1), render.NewColor(1, 0.2, 0.2)},
		{math3d.V3(1, 1, -1), render.NewColor(0.2, 1, 0.2)},
		{math3d.V3(1, -1, -1), render.NewColor(0.2, 0.2, 1)},
		{math3d.V3(-1, -1, -1), render.NewColor(1, 0.2, 1)},
		{math3d.V3(-1, 1, 1), render.NewColor(1, 1, 0.2)},
		{math3d.V3(1, 1, 1), render.NewColor(0.2, 1, 1)},
		{math3d.V3(1, -1, 1), render.NewColor(1, 0.3, 0.3)},
		{math3d.V3(-1, -1, 1), render.NewColor(0.2, 1, 0.3)},
	}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, MeshVertex{Position: c.pos, Color: c.color})
	}
	m.addFaces(
		0, 1, 2, 0, 2, 3, // front
		4, 0, 3, 4, 3, 7, // left
		4, 5, 1, 4, 1, 0, // top
		1, 5, 6, 1, 6, 2, // right
		5, 4, 7, 5, 7, 6, // back
		6, 7, 3, 6, 3, 2, // bottom
	)
	m.CalculateBounds()
	return m
}

// Pyramid returns a square-based pyramid without its base: four sides
// stored as an unindexed triangle list with one normal per side.
func Pyramid() *Mesh {
	m := NewMesh("pyramid")
	m.Unindexed = true

	red := render.NewColor(1, 0.2, 0.2)
	green := render.NewColor(0.2, 1, 0.2)
	blue := render.NewColor(0.2, 0.2, 1)
	magenta := render.NewColor(1, 0.2, 1)
	yellow := render.NewColor(1, 1, 0.2)

	apex := math3d.V3(0, 1, 0)
	frontLeft, frontRight := math3d.V3(-1, 0, -1), math3d.V3(1, 0, -1)
	backLeft, backRight := math3d.V3(-1, 0, 1), math3d.V3(1, 0, 1)

	sides := []struct {
		normal math3d.Vec3
		pos    [3]math3d.Vec3
		color  [3]render.Color
	}{
		{math3d.V3(0, 0.707, -0.707), [3]math3d.Vec3{frontLeft, apex, frontRight}, [3]render.Color{red, green, blue}},
		{math3d.V3(-0.707, 0.707, 0), [3]math3d.Vec3{backLeft, apex, frontLeft}, [3]render.Color{magenta, green, red}},
		{math3d.V3(0.707, 0.707, 0), [3]math3d.Vec3{frontRight, apex, backRight}, [3]render.Color{blue, green, yellow}},
		{math3d.V3(0, 0.707, 0.707), [3]math3d.Vec3{backRight, apex, backLeft}, [3]render.Color{yellow, green, magenta}},
	}
	for _, s := range sides {
		base := len(m.Vertices)
		for i := range 3 {
			m.Vertices = append(m.Vertices, MeshVertex{Position: s.pos[i], Normal: s.normal, Color: s.color[i]})
		}
		m.addFaces(base, base+1, base+2)
	}
	m.CalculateBounds()
	return m
}

// TexturedCube returns a 2×2×2 cube with 4 vertices per face so every face
// has its own normal and a full [0,1]² texture mapping.
func TexturedCube() *Mesh {
	m := NewMesh("texcube")
	faces := []struct {
		normal  math3d.Vec3
		corners [4]math3d.Vec3
	}{
		{math3d.V3(0, 0, -1), [4]math3d.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}}},
		{math3d.V3(0, 0, 1), [4]math3d.Vec3{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
		{math3d.V3(0, 1, 0), [4]math3d.Vec3{{X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}}},
		{math3d.V3(0, -1, 0), [4]math3d.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
		{math3d.V3(-1, 0, 0), [4]math3d.Vec3{{X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}}},
		{math3d.V3(1, 0, 0), [4]math3d.Vec3{{X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}}},
	}
	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	for _, f := range faces {
		base := len(m.Vertices)
		for i, p := range f.corners {
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   f.normal,
				Color:    render.ColorWhite,
				UV:       uvs[i],
			})
		}
		m.addFaces(base, base+1, base+2, base, base+2, base+3)
	}
	m.CalculateBounds()
	return m
}

// Quad returns a width×height rectangle in the z=0 plane facing -Z, with
// texture coordinates running from 0 to repeat.
func Quad(width, height, repeat float64) *Mesh {
	m := NewMesh("quad")
	hw, hh := width/2, height/2
	n := math3d.V3(0, 0, -1)
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(-hw, -hh, 0), Normal: n, Color: render.ColorWhite, UV: math3d.V2(0, 0)},
		{Position: math3d.V3(-hw, hh, 0), Normal: n, Color: render.ColorWhite, UV: math3d.V2(0, repeat)},
		{Position: math3d.V3(hw, hh, 0), Normal: n, Color: render.ColorWhite, UV: math3d.V2(repeat, repeat)},
		{Position: math3d.V3(hw, -hh, 0), Normal: n, Color: render.ColorWhite, UV: math3d.V2(repeat, 0)},
	}
	m.addFaces(0, 1, 2, 0, 2, 3)
	m.CalculateBounds()
	return m
}

// Triangle returns a single triangle at z=2 with red, green and blue
// corners.
func Triangle() *Mesh {
	m := NewMesh("triangle")
	n := math3d.V3(0, 0, -1)
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(-1, 0, 2), Normal: n, Color: render.ColorRed, UV: math3d.V2(0, 0)},
		{Position: math3d.V3(0, 1, 2), Normal: n, Color: render.ColorGreen, UV: math3d.V2(0.5, 1)},
		{Position: math3d.V3(1, 0, 2), Normal: n, Color: render.ColorBlue, UV: math3d.V2(1, 0)},
	}
	m.addFaces(0, 1, 2)
	m.CalculateBounds()
	return m
}

// addFaces appends one face per index triple, without a material.
func (m *Mesh) addFaces(indices ...int) {
	for i := 0; i+2 < len(indices); i += 3 {
		m.Faces = append(m.Faces, Face{
			V:        [3]int{indices[i], indices[i+1], indices[i+2]},
			Material: -1,
		})
	}
}
