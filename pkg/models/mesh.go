// Package models provides meshes for the fixpipe device: a mesh container,
// a glTF loader and the procedural demo shapes.
package models

import (
	"errors"
	"image"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

// ErrNoGeometry is returned when a model file holds no triangles.
var ErrNoGeometry = errors.New("models: no triangle geometry")

// Mesh is a triangle mesh with per-vertex attributes and per-face materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Unindexed meshes store every triangle as three consecutive
	// vertices and are drawn with DrawPrimitive.
	Unindexed bool

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    render.Color
	UV       math3d.Vec2
}

// Face is one triangle. Front faces wind clockwise as seen by the viewer.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is a metallic-roughness material as found in glTF files.
type Material struct {
	Name      string
	BaseColor render.Color
	Metallic  float64     // 0 = dielectric, 1 = metal
	Roughness float64     // 0 = smooth, 1 = rough
	BaseMap   image.Image // Optional base color texture
}

// DeviceMaterial approximates m with the fixed-function material model.
// Smooth surfaces get a tighter, brighter highlight; metals tint it.
func (m Material) DeviceMaterial() render.Material {
	gloss := 1 - math3d.Clamp(m.Roughness, 0, 1)
	spec := render.ColorWhite.Lerp(m.BaseColor, m.Metallic).Scale(gloss)
	return render.Material{
		Ambient:  m.BaseColor,
		Diffuse:  m.BaseColor.Scale(1 - 0.5*m.Metallic),
		Specular: spec,
		Power:    2 + 62*gloss*gloss,
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the bounding box for Device.IsVisible.
func (m *Mesh) Bounds() render.AABB {
	return render.NewAABB(m.BoundsMin, m.BoundsMax)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal is the unit normal of a clockwise front face in the
// left-handed frame.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces keep the normal of the last face that uses them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = normal
		}
	}
}

// CalculateSmoothNormals averages the area-weighted normals of all faces
// sharing a vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		normal := m.faceNormal(f) // Don't normalize yet
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > math3d.Epsilon {
			return true
		}
	}
	return false
}

// Transform bakes mat into the vertex data.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Transform(mat)
		m.Vertices[i].Normal = m.Vertices[i].Normal.TransformDir(normalMat).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		Unindexed: m.Unindexed,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// Buffers converts the mesh into a vertex stream and an index buffer for
// Device.SetStreamSource and Device.SetIndices.
func (m *Mesh) Buffers() ([]render.Vertex, []int) {
	verts := make([]render.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = render.Vertex{
			Position: math3d.V4FromV3(v.Position, 1),
			Normal:   v.Normal,
			Color:    v.Color,
			UV:       v.UV,
		}
	}
	indices := make([]int, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		indices = append(indices, f.V[0], f.V[1], f.V[2])
	}
	return verts, indices
}

// Bind loads the mesh buffers into d.
func (m *Mesh) Bind(d *render.Device) {
	verts, indices := m.Buffers()
	d.SetStreamSource(verts)
	if !m.Unindexed {
		d.SetIndices(indices)
	}
}

// Draw issues the draw call for a mesh previously bound with Bind.
func (m *Mesh) Draw(d *render.Device) {
	if m.Unindexed {
		d.DrawPrimitive(0, len(m.Faces))
		return
	}
	d.DrawIndexedPrimitive(0, len(m.Faces))
}
