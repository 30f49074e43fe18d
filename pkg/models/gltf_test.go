package models

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

// writeGLB saves a document holding one right-handed, counter-clockwise
// triangle facing +Z.
func writeGLB(t *testing.T, withIndices bool) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, 2}, {1, 0, 2}, {0, 1, 2}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {0.5, 0}})

	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
		Material:   gltf.Index(0),
	}
	if withIndices {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2}))
	}
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.5),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLBConvertsHandedness(t *testing.T) {
	for _, indexed := range []bool{true, false} {
		mesh, err := LoadGLB(writeGLB(t, indexed))
		require.NoError(t, err)

		require.Equal(t, 3, mesh.VertexCount())
		require.Equal(t, 1, mesh.TriangleCount())
		assert.True(t, mesh.Vertices[0].Position.Equals(math3d.V3(-1, 0, -2)), "z is mirrored")
		assert.Equal(t, [3]int{0, 2, 1}, mesh.Faces[0].V, "winding is reversed")

		// The computed normal follows the mirrored facing.
		assert.True(t, mesh.Vertices[0].Normal.Equals(math3d.V3(0, 0, -1)), "normal %v", mesh.Vertices[0].Normal)

		// V is flipped to put 0 at the bottom of the image.
		assert.True(t, mesh.Vertices[0].UV.Equals(math3d.V2(0, 0)))
		assert.True(t, mesh.Vertices[2].UV.Equals(math3d.V2(0.5, 1)))

		require.Equal(t, 1, mesh.MaterialCount())
		assert.Equal(t, "red", mesh.Materials[0].Name)
		assert.InDelta(t, 0.5, mesh.Materials[0].Roughness, 1e-9)
		assert.Equal(t, 0, mesh.GetFaceMaterial(0))
		assert.Equal(t, render.ColorRed, mesh.Vertices[1].Color)
	}
}

func TestLoadGLBFrontFaceSurvivesCulling(t *testing.T) {
	mesh, err := LoadGLB(writeGLB(t, true))
	require.NoError(t, err)

	// The glTF viewer sat on +Z looking back at the triangle. Mirrored,
	// that is a device camera on -Z looking along +Z.
	d := render.NewDevice(32, 32)
	d.SetTransform(render.TransformView, math3d.LookAt(math3d.V3(0, 0, -5), math3d.Zero3(), math3d.Up()))
	d.SetTransform(render.TransformProjection, math3d.PerspectiveFov(math.Pi/2, 1, 1, 100))
	d.Clear(render.ColorBlack, 1)
	require.True(t, d.IsVisible(mesh.Bounds()))

	mesh.Bind(d)
	mesh.Draw(d)
	assert.Equal(t, 1, d.Stats().Drawn)
	assert.Zero(t, d.Stats().Culled)
}

func TestLoadGLBNoGeometry(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	_, err := LoadGLB(path)
	assert.True(t, errors.Is(err, ErrNoGeometry), "got %v", err)
}

func TestLoadGLBWithTexture(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
	}}}}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	_, err := modeler.WriteImage(doc, "tex", "image/png", &buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "textured.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	mesh, tex, err := LoadGLBWithTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
	require.NotNil(t, tex)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, render.ColorBlue, tex.GetPixel(0, 0))
}
