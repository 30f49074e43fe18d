package scene

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/fixpipe/pkg/math3d"
	"github.com/taigrr/fixpipe/pkg/models"
	"github.com/taigrr/fixpipe/pkg/render"
)

// Demo is a named entry of the scene registry.
type Demo struct {
	Name        string
	Description string
	Config      func() Config
}

var registry = map[string]Demo{}

func register(d Demo) {
	if _, dup := registry[d.Name]; dup {
		panic("scene: duplicate demo " + d.Name)
	}
	registry[d.Name] = d
}

// Scenes returns every registered demo sorted by name.
func Scenes() []Demo {
	return slices.SortedFunc(maps.Values(registry), func(a, b Demo) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// Lookup returns the demo registered under name.
func Lookup(name string) (Demo, bool) {
	d, ok := registry[name]
	return d, ok
}

func init() {
	register(Demo{
		Name:        "cube",
		Description: "colored cube, Gouraud-interpolated vertex colors",
		Config: func() Config {
			c := DefaultConfig()
			c.Scene = "cube"
			c.Tilt = Vector{math.Pi / 4, 0, 0}
			return c
		},
	})
	register(Demo{
		Name:        "wire-cube",
		Description: "the colored cube as a wireframe",
		Config: func() Config {
			c := DefaultConfig()
			c.Scene = "wire-cube"
			c.Fill = render.FillWireframe.String()
			c.Tilt = Vector{math.Pi / 4, 0, 0}
			return c
		},
	})
	register(Demo{
		Name:        "pyramid",
		Description: "lit pyramid drawn with DrawPrimitive",
		Config:      pyramidConfig("pyramid", render.ShadeGouraud),
	})
	register(Demo{
		Name:        "phong-pyramid",
		Description: "lit pyramid with per-pixel lighting",
		Config:      pyramidConfig("phong-pyramid", render.ShadePhong),
	})
	register(Demo{
		Name:        "texcube",
		Description: "checker-textured cube under a spot light",
		Config: func() Config {
			c := DefaultConfig()
			c.Scene = "texcube"
			c.Mesh = "texcube"
			c.Texture = "checker"
			c.Fill = render.FillTexture.String()
			c.Lighting = true
			c.Tilt = Vector{math.Pi / 4, 0, 0}
			c.Light.Position = Vector{-1, 0, -3}
			return c
		},
	})
	register(Demo{
		Name:        "lights-directional",
		Description: "red cube under a directional light",
		Config: func() Config {
			c := lightsConfig("lights-directional", render.NewColor(1, 0, 0))
			c.Light = LightConfig{
				Type:      render.LightDirectional.String(),
				Ambient:   HexColor(render.NewColor(0.6, 0.6, 0.6)),
				Diffuse:   "#ffffff",
				Specular:  HexColor(render.NewColor(0.6, 0.6, 0.6)),
				Direction: Vector{1, 0, 0.25},
			}
			return c
		},
	})
	register(Demo{
		Name:        "lights-point",
		Description: "blue cube lit by a point light at the camera",
		Config: func() Config {
			c := lightsConfig("lights-point", render.NewColor(0, 0, 1))
			c.Light = LightConfig{
				Type:        render.LightPoint.String(),
				Ambient:     HexColor(render.NewColor(0.2, 0.2, 0.2)),
				Diffuse:     "#ffffff",
				Specular:    HexColor(render.NewColor(0.6, 0.6, 0.6)),
				Position:    Vector{0, 0, -3},
				Range:       1000,
				Attenuation: Vector{1, 0, 0},
			}
			return c
		},
	})
	register(Demo{
		Name:        "lights-spot",
		Description: "green cube in a narrow spot light",
		Config: func() Config {
			c := lightsConfig("lights-spot", render.NewColor(0, 1, 0))
			c.Light = LightConfig{
				Type:        render.LightSpot.String(),
				Ambient:     "#000000",
				Diffuse:     "#ffffff",
				Specular:    HexColor(render.NewColor(0.6, 0.6, 0.6)),
				Position:    Vector{0, 0, -5},
				Direction:   Vector{0, 0, 1},
				Range:       1000,
				Falloff:     1,
				Attenuation: Vector{1, 0, 0},
				Theta:       0.4,
				Phi:         0.9,
			}
			return c
		},
	})
}

func pyramidConfig(name string, shade render.ShadeMode) func() Config {
	return func() Config {
		c := DefaultConfig()
		c.Scene = name
		c.Mesh = "pyramid"
		c.Shade = shade.String()
		c.Lighting = true
		c.Camera.Eye = Vector{0, 1, -3}
		c.Light = LightConfig{
			Type:      render.LightDirectional.String(),
			Ambient:   HexColor(render.NewColor(0.6, 0.6, 0.6)),
			Diffuse:   "#ffffff",
			Specular:  HexColor(render.NewColor(0.3, 0.3, 0.3)),
			Direction: Vector{1, 0, 0},
		}
		return c
	}
}

// lightsConfig is a smooth-shaded cube in one material color, for comparing
// light types.
func lightsConfig(name string, color render.Color) Config {
	c := DefaultConfig()
	c.Scene = name
	c.Lighting = true
	c.Shade = render.ShadePhong.String()
	c.Camera.Eye = Vector{0, 0, -5}
	c.Camera.FOV = 60
	c.Tilt = Vector{math.Pi / 6, 0, 0}
	c.Spin = Vector{0, 0.5, 0}
	c.Material = MaterialConfig{
		Ambient:  HexColor(color),
		Diffuse:  HexColor(color),
		Specular: HexColor(color),
		Emissive: "#000000",
		Power:    2,
	}
	return c
}

// Scene is a Config loaded onto a device: the mesh, texture and camera it
// names plus the animation state.
type Scene struct {
	Config  Config
	Camera  *render.Camera
	Mesh    *models.Mesh
	Texture *render.Texture

	settings settings
	angle    math3d.Vec3
}

// New creates the registered demo called name. Call Setup before drawing.
func New(name string) (*Scene, error) {
	demo, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	return NewFromConfig(demo.Config()), nil
}

// NewFromConfig creates a scene from cfg. Call Setup before drawing.
func NewFromConfig(cfg Config) *Scene {
	return &Scene{Config: cfg, Camera: render.NewCamera()}
}

// Name returns the demo name, or the mesh name for ad hoc configs.
func (s *Scene) Name() string {
	if s.Config.Scene != "" {
		return s.Config.Scene
	}
	return filepath.Base(s.Config.Mesh)
}

// Setup loads the mesh and texture, applies the config to d and the camera
// and binds the mesh buffers. It may be called again with a new device, for
// example after a resize; the animation state is kept.
func (s *Scene) Setup(d *render.Device) error {
	st, err := s.Config.parse()
	if err != nil {
		return err
	}

	mesh, embedded, err := s.Config.loadMesh()
	if err != nil {
		return err
	}
	tex, err := s.Config.loadTexture()
	if err != nil {
		return err
	}
	if tex == nil {
		tex = embedded
	}

	if err := s.Config.Apply(d, s.Camera); err != nil {
		return err
	}
	if s.Config.MeshMaterial && mesh.MaterialCount() > 0 {
		d.SetMaterial(mesh.GetMaterial(0).DeviceMaterial())
	}
	d.SetTexture(tex)
	mesh.Bind(d)

	s.settings = st
	s.Mesh = mesh
	s.Texture = tex
	render.Logger().Debug("scene: setup", "scene", s.Name(),
		"triangles", mesh.TriangleCount(), "width", d.Width(), "height", d.Height())
	return nil
}

// Update advances the spin by dt seconds. Angles wrap at 2π.
func (s *Scene) Update(dt float64) {
	spin := s.Config.Spin.Vec3().Scale(dt)
	s.angle = math3d.V3(
		wrapAngle(s.angle.X+spin.X),
		wrapAngle(s.angle.Y+spin.Y),
		wrapAngle(s.angle.Z+spin.Z),
	)
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// World returns the current world matrix: the tilt and the accumulated spin
// applied about X, then Y, then Z.
func (s *Scene) World() math3d.Mat4 {
	a := s.Config.Tilt.Vec3().Add(s.angle)
	return math3d.RotateX(a.X).Mul(math3d.RotateY(a.Y)).Mul(math3d.RotateZ(a.Z))
}

// Draw clears d and draws one frame. With Cull set, a mesh whose bounds
// leave the view frustum is skipped. Draw reports whether it drew.
func (s *Scene) Draw(d *render.Device) bool {
	d.Clear(s.settings.background, 1)
	d.SetTransform(render.TransformWorld, s.World())
	s.Camera.Apply(d)
	if s.Config.Cull && !d.IsVisible(s.Mesh.Bounds()) {
		return false
	}
	s.Mesh.Draw(d)
	return true
}

// loadMesh builds a named shape, or loads a glTF file relative to the
// config file.
func (c Config) loadMesh() (*models.Mesh, *render.Texture, error) {
	switch c.Mesh {
	case "cube":
		m := models.Cube()
		m.CalculateSmoothNormals()
		return m, nil, nil
	case "pyramid":
		return models.Pyramid(), nil, nil
	case "texcube":
		return models.TexturedCube(), nil, nil
	case "quad":
		return models.Quad(2, 2, 1), nil, nil
	case "triangle":
		return models.Triangle(), nil, nil
	}
	switch strings.ToLower(filepath.Ext(c.Mesh)) {
	case ".glb", ".gltf":
		mesh, tex, err := models.LoadGLBWithTexture(c.resolve(c.Mesh))
		if err != nil {
			return nil, nil, fmt.Errorf("load mesh: %w", err)
		}
		fitUnitCube(mesh)
		return mesh, tex, nil
	}
	return nil, nil, fmt.Errorf("unknown mesh %q", c.Mesh)
}

// fitUnitCube centers a loaded model on the origin and scales it so its
// largest side spans 2 units, the size of the built-in shapes.
func fitUnitCube(mesh *models.Mesh) {
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := 2 / maxDim
	mesh.Transform(math3d.Translate(mesh.Center().Negate()).Mul(math3d.ScaleUniform(scale)))
}

func (c Config) loadTexture() (*render.Texture, error) {
	switch c.Texture {
	case "":
		return nil, nil
	case "checker":
		return render.NewCheckerTexture(64, 64, 8, render.RGB(230, 230, 230), render.RGB(200, 40, 40)), nil
	case "gradient":
		return render.NewGradientTexture(64, 64), nil
	}
	tex, err := render.LoadTexture(c.resolve(c.Texture))
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	return tex, nil
}
