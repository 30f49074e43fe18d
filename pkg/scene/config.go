// Package scene describes what a fixpipe device draws: a mesh, a camera, one
// material and one light, plus how the world matrix moves over time. Scenes
// come from the built-in demo registry or from TOML and YAML scene files.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/render"
)

var (
	// ErrUnknownScene is returned for a scene name missing from the registry.
	ErrUnknownScene = errors.New("scene: unknown scene")
	// ErrUnsupportedFormat is returned for config files that are neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("scene: unsupported config format")
)

// Vector is an x, y, z triple as written in scene files.
type Vector [3]float64

// Vec3 converts v for the math3d API.
func (v Vector) Vec3() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// Config is a complete scene description. Colors are hex strings such as
// "#ff8000"; angles are in radians except Camera.FOV, which is in degrees.
type Config struct {
	// Scene names the registered demo a file starts from. Everything else
	// in the file overrides that demo's settings.
	Scene string `toml:"scene,omitempty" yaml:"scene,omitempty"`

	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Background string `toml:"background" yaml:"background"`
	Fill       string `toml:"fill" yaml:"fill"`   // wireframe, color or texture
	Shade      string `toml:"shade" yaml:"shade"` // flat, gouraud or phong
	Lighting   bool   `toml:"lighting" yaml:"lighting"`
	LineColor  string `toml:"line_color" yaml:"line_color"`

	// Mesh is cube, pyramid, texcube, quad, triangle or a .glb/.gltf path.
	Mesh string `toml:"mesh" yaml:"mesh"`
	// MeshMaterial uses the first material of a loaded model in place of
	// Material.
	MeshMaterial bool `toml:"mesh_material" yaml:"mesh_material"`
	// Texture is empty, checker, gradient or an image path. A model's
	// embedded texture is used when Texture is empty.
	Texture string `toml:"texture" yaml:"texture"`

	// Tilt is a fixed rotation about X, Y and Z; Spin adds that many
	// radians per second.
	Tilt Vector `toml:"tilt" yaml:"tilt"`
	Spin Vector `toml:"spin" yaml:"spin"`
	// Cull skips the draw call when the mesh bounds leave the frustum.
	Cull bool `toml:"cull" yaml:"cull"`

	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Material MaterialConfig `toml:"material" yaml:"material"`
	Light    LightConfig    `toml:"light" yaml:"light"`

	dir string // resolves relative mesh and texture paths
}

// CameraConfig places the camera.
type CameraConfig struct {
	Eye    Vector  `toml:"eye" yaml:"eye"`
	Target Vector  `toml:"target" yaml:"target"`
	Up     Vector  `toml:"up" yaml:"up"`
	FOV    float64 `toml:"fov" yaml:"fov"`
	Near   float64 `toml:"near" yaml:"near"`
	Far    float64 `toml:"far" yaml:"far"`
}

// MaterialConfig mirrors render.Material.
type MaterialConfig struct {
	Ambient  string  `toml:"ambient" yaml:"ambient"`
	Diffuse  string  `toml:"diffuse" yaml:"diffuse"`
	Specular string  `toml:"specular" yaml:"specular"`
	Emissive string  `toml:"emissive" yaml:"emissive"`
	Power    float64 `toml:"power" yaml:"power"`
}

// LightConfig mirrors render.Light. Attenuation holds the constant, linear
// and quadratic terms.
type LightConfig struct {
	Type        string  `toml:"type" yaml:"type"`
	Diffuse     string  `toml:"diffuse" yaml:"diffuse"`
	Specular    string  `toml:"specular" yaml:"specular"`
	Ambient     string  `toml:"ambient" yaml:"ambient"`
	Position    Vector  `toml:"position" yaml:"position"`
	Direction   Vector  `toml:"direction" yaml:"direction"`
	Range       float64 `toml:"range" yaml:"range"`
	Falloff     float64 `toml:"falloff" yaml:"falloff"`
	Attenuation Vector  `toml:"attenuation" yaml:"attenuation"`
	Theta       float64 `toml:"theta" yaml:"theta"`
	Phi         float64 `toml:"phi" yaml:"phi"`
}

// DefaultConfig returns the base every demo starts from: an 800×600 black
// frame, the colored cube seen from (0, 1, -4) with a 90 degree field of
// view, lighting off and a white spot light in the light slot.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Background: "#000000",
		Fill:       render.FillColor.String(),
		Shade:      render.ShadeGouraud.String(),
		LineColor:  "#ffffff",
		Mesh:       "cube",
		Spin:       Vector{0, 1, 0},
		Camera: CameraConfig{
			Eye:  Vector{0, 1, -4},
			Up:   Vector{0, 1, 0},
			FOV:  90,
			Near: 1,
			Far:  1000,
		},
		Material: MaterialFrom(render.DefaultMaterial()),
		Light: LightConfig{
			Type:        render.LightSpot.String(),
			Diffuse:     "#ffffff",
			Specular:    HexColor(render.NewColor(0.3, 0.3, 0.3)),
			Ambient:     HexColor(render.NewColor(0.6, 0.6, 0.6)),
			Position:    Vector{-1, 0, 1},
			Direction:   Vector{0, 0, 1},
			Range:       1000,
			Falloff:     1,
			Attenuation: Vector{1, 0, 0},
			Theta:       0.4,
			Phi:         0.9,
		},
	}
}

// MaterialFrom converts m to its config form.
func MaterialFrom(m render.Material) MaterialConfig {
	return MaterialConfig{
		Ambient:  HexColor(m.Ambient),
		Diffuse:  HexColor(m.Diffuse),
		Specular: HexColor(m.Specular),
		Emissive: HexColor(m.Emissive),
		Power:    m.Power,
	}
}

// LoadConfig reads a .toml, .yaml or .yml scene file. Relative mesh and
// texture paths in the file are resolved against its directory.
func LoadConfig(path string) (Config, error) {
	unmarshal, err := decoderFor(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scene config: %w", err)
	}

	var head struct {
		Scene string `toml:"scene" yaml:"scene"`
	}
	if err := unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if head.Scene != "" {
		demo, ok := Lookup(head.Scene)
		if !ok {
			return Config{}, fmt.Errorf("%s: %w %q", path, ErrUnknownScene, head.Scene)
		}
		cfg = demo.Config()
	}
	if err := unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	if _, err := cfg.parse(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// MarshalConfig encodes cfg in the format implied by ext (".toml", ".yaml"
// or ".yml").
func MarshalConfig(cfg Config, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Marshal(cfg)
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// resolve returns p relative to the config file's directory.
func (c Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// settings is a Config with every string parsed.
type settings struct {
	background render.Color
	lineColor  render.Color
	fill       render.FillMode
	shade      render.ShadeMode
	material   render.Material
	light      render.Light
}

func (c Config) parse() (settings, error) {
	var s settings
	var err error

	if c.Width <= 0 || c.Height <= 0 {
		return s, fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return s, fmt.Errorf("invalid clip planes near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return s, fmt.Errorf("invalid field of view %g", c.Camera.FOV)
	}
	if s.fill, err = render.ParseFillMode(c.Fill); err != nil {
		return s, err
	}
	if s.shade, err = render.ParseShadeMode(c.Shade); err != nil {
		return s, err
	}

	colors := []struct {
		name string
		hex  string
		dst  *render.Color
	}{
		{"background", c.Background, &s.background},
		{"line_color", c.LineColor, &s.lineColor},
		{"material.ambient", c.Material.Ambient, &s.material.Ambient},
		{"material.diffuse", c.Material.Diffuse, &s.material.Diffuse},
		{"material.specular", c.Material.Specular, &s.material.Specular},
		{"material.emissive", c.Material.Emissive, &s.material.Emissive},
		{"light.diffuse", c.Light.Diffuse, &s.light.Diffuse},
		{"light.specular", c.Light.Specular, &s.light.Specular},
		{"light.ambient", c.Light.Ambient, &s.light.Ambient},
	}
	for _, col := range colors {
		if *col.dst, err = ParseColor(col.hex); err != nil {
			return s, fmt.Errorf("%s: %w", col.name, err)
		}
	}
	s.material.Power = c.Material.Power

	if s.light.Type, err = render.ParseLightType(c.Light.Type); err != nil {
		return s, err
	}
	s.light.Position = c.Light.Position.Vec3()
	s.light.Direction = c.Light.Direction.Vec3()
	s.light.Range = c.Light.Range
	s.light.Falloff = c.Light.Falloff
	s.light.Attenuation0 = c.Light.Attenuation[0]
	s.light.Attenuation1 = c.Light.Attenuation[1]
	s.light.Attenuation2 = c.Light.Attenuation[2]
	s.light.Theta = c.Light.Theta
	s.light.Phi = c.Light.Phi
	return s, nil
}

// Apply validates c and loads its render state and camera into d and cam.
// The camera's aspect ratio follows the device size.
func (c Config) Apply(d *render.Device, cam *render.Camera) error {
	s, err := c.parse()
	if err != nil {
		return err
	}
	d.SetRenderState(s.fill)
	d.SetShadeMode(s.shade)
	d.LightEnable(c.Lighting)
	d.SetLineColor(s.lineColor)
	d.SetMaterial(s.material)
	d.SetLight(s.light)

	cam.UpDir = c.Camera.Up.Vec3()
	cam.SetTarget(c.Camera.Target.Vec3())
	cam.SetPosition(c.Camera.Eye.Vec3())
	cam.SetFOV(c.Camera.FOV * math.Pi / 180)
	cam.SetAspectRatio(float64(d.Width()) / float64(d.Height()))
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	cam.Apply(d)
	return nil
}

// ParseColor parses "#rrggbb", "#rgb" or the same without the leading '#'.
func ParseColor(s string) (render.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.NewColor(c.R, c.G, c.B), nil
}

// HexColor formats c as "#rrggbb", clamping each channel.
func HexColor(c render.Color) string {
	return colorful.Color{
		R: math3d.Clamp(c.R, 0, 1),
		G: math3d.Clamp(c.G, 0, 1),
		B: math3d.Clamp(c.B, 0, 1),
	}.Hex()
}
