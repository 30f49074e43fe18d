package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigApply(t *testing.T) {
	d := render.NewDevice(80, 60)
	cam := render.NewCamera()
	require.NoError(t, DefaultConfig().Apply(d, cam))

	assert.Equal(t, render.FillColor, d.RenderState())
	assert.Equal(t, render.ShadeGouraud, d.ShadeMode())
	assert.False(t, d.LightEnabled())
	assert.Equal(t, render.DefaultMaterial(), d.Material())

	l := d.Light()
	assert.Equal(t, render.LightSpot, l.Type)
	assert.InDelta(t, 0.6, l.Ambient.R, 1e-9)
	assert.InDelta(t, 0.4, l.Theta, 1e-12)

	view := math3d.LookAt(math3d.V3(0, 1, -4), math3d.Zero3(), math3d.Up())
	proj := math3d.PerspectiveFov(math.Pi/2, 80.0/60.0, 1, 1000)
	assert.True(t, d.Transform(render.TransformView).Equals(view))
	assert.True(t, d.Transform(render.TransformProjection).Equals(proj))
}

func TestApplyRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"fill", func(c *Config) { c.Fill = "solid" }},
		{"shade", func(c *Config) { c.Shade = "toon" }},
		{"light type", func(c *Config) { c.Light.Type = "area" }},
		{"color", func(c *Config) { c.Material.Diffuse = "#zzzzzz" }},
		{"size", func(c *Config) { c.Width = 0 }},
		{"clip planes", func(c *Config) { c.Camera.Near = 10; c.Camera.Far = 5 }},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Apply(render.NewDevice(8, 8), render.NewCamera()))
		})
	}
}

func TestLoadConfigOverridesDemo(t *testing.T) {
	files := map[string]string{
		"scene.toml": `
scene = "pyramid"
shade = "phong"

[light]
diffuse = "#ff0000"
`,
		"scene.yaml": `
scene: pyramid
shade: phong
light:
  diffuse: "#ff0000"
`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, name, content))
			require.NoError(t, err)

			assert.Equal(t, "pyramid", cfg.Mesh, "inherited from the demo")
			assert.Equal(t, Vector{0, 1, -3}, cfg.Camera.Eye, "inherited from the demo")
			assert.Equal(t, "directional", cfg.Light.Type, "untouched keys of a table survive")
			assert.Equal(t, "phong", cfg.Shade)
			assert.Equal(t, "#ff0000", cfg.Light.Diffuse)
		})
	}
}

func TestLoadConfigWithoutSceneStartsFromDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "bare.yml", "width: 320\nheight: 200\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Width, want.Height = 320, 200
	want.dir = cfg.dir
	assert.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "scene.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadConfig(writeFile(t, "scene.toml", `scene = "teapot"`))
	assert.ErrorIs(t, err, ErrUnknownScene)

	_, err = LoadConfig(writeFile(t, "scene.toml", `background = "nope"`))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "scene.toml", `width = [`))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalConfigReloads(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			want, err := New("texcube")
			require.NoError(t, err)

			data, err := MarshalConfig(want.Config, ext)
			require.NoError(t, err)
			path := writeFile(t, "dump"+ext, string(data))

			got, err := LoadConfig(path)
			require.NoError(t, err)
			want.Config.dir = got.dir
			assert.Equal(t, want.Config, got)
		})
	}

	_, err := MarshalConfig(DefaultConfig(), ".ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConfigResolvesRelativePaths(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "model.glb", cfg.resolve("model.glb"), "no file, no base directory")

	cfg.dir = filepath.Join("assets", "scenes")
	assert.Equal(t, filepath.Join("assets", "scenes", "model.glb"), cfg.resolve("model.glb"))
	assert.Equal(t, "/abs/model.glb", cfg.resolve("/abs/model.glb"))
	assert.Equal(t, "", cfg.resolve(""))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want render.Color
	}{
		{"#ff0000", render.ColorRed},
		{"00ff00", render.ColorGreen},
		{"#fff", render.ColorWhite},
		{" #000000 ", render.ColorBlack},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equals(tt.want), "%q: got %v", tt.in, got)
	}

	_, err := ParseColor("#12zz56")
	assert.Error(t, err)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ff0080", HexColor(render.NewColor(2, -1, 0.5)))

	c, err := ParseColor(HexColor(render.NewColor(0.6, 0.6, 0.6)))
	require.NoError(t, err)
	assert.InDelta(t, 0.6, c.R, 1.0/255)
}
