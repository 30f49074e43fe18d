package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadrantTexture is 2×2: red top-left, green top-right, blue bottom-left,
// white bottom-right.
func quadrantTexture() *Texture {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorGreen)
	tex.SetPixel(0, 1, ColorBlue)
	tex.SetPixel(1, 1, ColorWhite)
	return tex
}

func TestSampleNearest(t *testing.T) {
	tex := quadrantTexture()

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"v=0 is the bottom row", 0.25, 0.25, ColorBlue},
		{"bottom right", 0.75, 0.25, ColorWhite},
		{"top left", 0.25, 0.75, ColorRed},
		{"top right", 0.75, 0.75, ColorGreen},
		{"u=1 stays on the last column", 1, 0.25, ColorWhite},
		{"clamped below", -3, -3, ColorBlue},
		{"clamped above", 4, 4, ColorGreen},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tex.Sample(tc.u, tc.v))
		})
	}
}

func TestSampleRepeat(t *testing.T) {
	tex := quadrantTexture()
	tex.WrapU, tex.WrapV = WrapRepeat, WrapRepeat

	assert.Equal(t, tex.Sample(0.25, 0.75), tex.Sample(1.25, 2.75))
	assert.Equal(t, tex.Sample(0.75, 0.25), tex.Sample(-0.25, -0.75))
}

func TestSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorBlack)
	tex.SetPixel(1, 0, ColorWhite)
	tex.FilterMode = FilterBilinear

	// Texel centers reproduce the texel exactly.
	assert.Equal(t, ColorBlack, tex.Sample(0.25, 0.5))
	assert.Equal(t, ColorWhite, tex.Sample(0.75, 0.5))
	// Halfway between the centers.
	assertColorInDelta(t, ColorGray, tex.Sample(0.5, 0.5), 1e-12)
	// Clamp holds the edge texel past the outer centers.
	assert.Equal(t, ColorBlack, tex.Sample(0, 0.5))

	tex.WrapU = WrapRepeat
	assertColorInDelta(t, ColorGray, tex.Sample(0, 0.5), 1e-12, "wraps to the opposite edge")
}

func TestGradientTextureReadsBackCoordinates(t *testing.T) {
	tex := NewGradientTexture(16, 16)
	for _, uv := range [][2]float64{{0.1, 0.9}, {0.5, 0.5}, {0.8, 0.2}} {
		c := tex.Sample(uv[0], uv[1])
		assert.InDelta(t, uv[0], c.R, 1.0/16)
		assert.InDelta(t, uv[1], c.G, 1.0/16)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(8, 8, 2, ColorWhite, ColorBlack)
	assert.Equal(t, ColorWhite, tex.GetPixel(0, 0))
	assert.Equal(t, ColorWhite, tex.GetPixel(1, 1))
	assert.Equal(t, ColorBlack, tex.GetPixel(2, 0))
	assert.Equal(t, ColorWhite, tex.GetPixel(2, 2))
}

func TestTextureClone(t *testing.T) {
	tex := quadrantTexture()
	tex.FilterMode = FilterBilinear
	c := tex.Clone()

	tex.SetPixel(0, 0, ColorBlack)
	assert.Equal(t, ColorRed, c.GetPixel(0, 0))
	assert.Equal(t, FilterBilinear, c.FilterMode)
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 13, 22))
	img.Set(10, 20, color.RGBA{255, 0, 0, 255})
	img.Set(12, 21, color.RGBA{0, 0, 255, 255})

	tex := TextureFromImage(img)
	require.Equal(t, 3, tex.Width)
	require.Equal(t, 2, tex.Height)
	assert.Equal(t, ColorRed, tex.GetPixel(0, 0))
	assert.Equal(t, ColorBlue, tex.GetPixel(2, 1))
}

func TestLoadTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{0, 255, 0, 255})

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, ColorGreen, tex.GetPixel(1, 1))

	_, err = LoadTexture(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
