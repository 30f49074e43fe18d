package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

// GLTFLoader loads glTF and GLB files into a Mesh.
//
// glTF is right-handed with counter-clockwise front faces. The loader
// mirrors z into the device's left-handed frame and swaps the last two
// indices of every triangle so front faces wind clockwise on screen.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Materials = readMaterials(doc)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	render.Logger().Debug("models: gltf loaded", "name", name,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var colors [][4]uint8
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		material := -1
		base := render.ColorWhite
		if prim.Material != nil {
			material = *prim.Material
			if mat := mesh.GetMaterial(material); mat != nil {
				base = mat.BaseColor
			}
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{
				Position: math3d.V3(float64(p[0]), float64(p[1]), -float64(p[2])),
				Color:    base,
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), -float64(n[2]))
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			if i < len(colors) {
				c := colors[i]
				v.Color = base.Mul(render.RGB(c[0], c[1], c[2]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V: [3]int{
					baseVertex + int(indices[i]),
					baseVertex + int(indices[i+2]), // swapped
					baseVertex + int(indices[i+1]), // swapped
				},
				Material: material,
			})
		}
	}

	return nil
}

// readMaterials converts the document's metallic-roughness materials.
func readMaterials(doc *gltf.Document) []Material {
	mats := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mats[i] = Material{Name: m.Name, BaseColor: render.ColorWhite, Roughness: 1}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			mats[i].BaseColor = render.NewColor(c[0], c[1], c[2])
			mats[i].Metallic = pbr.MetallicFactorOrDefault()
			mats[i].Roughness = pbr.RoughnessFactorOrDefault()
		}
	}
	return mats
}

// imageData returns the encoded bytes of every image in the document that
// can be found, keyed by image index. URIs are resolved against dir.
func imageData(doc *gltf.Document, dir string) map[int][]byte {
	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil {
				start := bv.ByteOffset
				end := start + bv.ByteLength
				textures[i] = buf.Data[start:end]
			}
		} else if img.URI != "" {
			data, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err == nil {
				textures[i] = data
			}
		}
	}
	return textures
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable embedded texture, which may be nil.
func LoadGLBWithTexture(path string) (*Mesh, *render.Texture, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	data := imageData(doc, filepath.Dir(path))
	for i := range doc.Images {
		if len(data[i]) == 0 {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data[i]))
		if err != nil {
			render.Logger().Warn("models: skipping undecodable texture", "image", i, "error", err)
			continue
		}
		for j := range mesh.Materials {
			if mesh.Materials[j].BaseMap == nil {
				mesh.Materials[j].BaseMap = img
			}
		}
		return mesh, render.TextureFromImage(img), nil
	}
	return mesh, nil, nil
}
