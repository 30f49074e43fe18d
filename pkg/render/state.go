package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// TransformKind selects one of the device's transform slots.
type TransformKind int

const (
	TransformWorld TransformKind = iota
	TransformView
	TransformProjection
)

func (k TransformKind) String() string {
	switch k {
	case TransformWorld:
		return "world"
	case TransformView:
		return "view"
	case TransformProjection:
		return "projection"
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// FillMode selects how triangles are rasterized.
type FillMode int

const (
	FillWireframe FillMode = iota // Edges only, no depth test
	FillColor                     // Interpolated vertex colors
	FillTexture                   // Bound texture sampled per pixel
)

var fillModeNames = []string{"wireframe", "color", "texture"}

func (m FillMode) String() string {
	if int(m) >= 0 && int(m) < len(fillModeNames) {
		return fillModeNames[m]
	}
	return fmt.Sprintf("FillMode(%d)", int(m))
}

// ParseFillMode converts a name produced by FillMode.String back to a mode.
func ParseFillMode(s string) (FillMode, error) {
	for i, name := range fillModeNames {
		if strings.EqualFold(s, name) {
			return FillMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fill mode %q", s)
}

// ShadeMode selects where lighting and vertex color are evaluated.
type ShadeMode int

const (
	// ShadeFlat uses the first vertex's color and light for the whole triangle.
	ShadeFlat ShadeMode = iota
	// ShadeGouraud lights each vertex and interpolates the result.
	ShadeGouraud
	// ShadePhong interpolates normals and lights every pixel.
	ShadePhong
)

var shadeModeNames = []string{"flat", "gouraud", "phong"}

func (m ShadeMode) String() string {
	if int(m) >= 0 && int(m) < len(shadeModeNames) {
		return shadeModeNames[m]
	}
	return fmt.Sprintf("ShadeMode(%d)", int(m))
}

// ParseShadeMode converts a name produced by ShadeMode.String back to a mode.
func ParseShadeMode(s string) (ShadeMode, error) {
	for i, name := range shadeModeNames {
		if strings.EqualFold(s, name) {
			return ShadeMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shade mode %q", s)
}

// LightType distinguishes the three light models.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

var lightTypeNames = []string{"directional", "point", "spot"}

func (t LightType) String() string {
	if int(t) >= 0 && int(t) < len(lightTypeNames) {
		return lightTypeNames[t]
	}
	return fmt.Sprintf("LightType(%d)", int(t))
}

// ParseLightType converts a name produced by LightType.String back to a type.
func ParseLightType(s string) (LightType, error) {
	for i, name := range lightTypeNames {
		if strings.EqualFold(s, name) {
			return LightType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

// Material describes how a surface responds to light.
type Material struct {
	Ambient  Color
	Diffuse  Color
	Specular Color
	Emissive Color
	Power    float64 // Specular exponent
}

// DefaultMaterial reflects every light channel fully with a soft highlight.
func DefaultMaterial() Material {
	return Material{
		Ambient:  ColorWhite,
		Diffuse:  ColorWhite,
		Specular: ColorWhite,
		Power:    5,
	}
}

// Light is a single light source in world space.
type Light struct {
	Type     LightType
	Diffuse  Color
	Specular Color
	Ambient  Color

	Position  math3d.Vec3 // Point and spot lights
	Direction math3d.Vec3 // Directional and spot lights

	Range   float64 // Fragments farther than Range are unlit
	Falloff float64 // Penumbra exponent for spot lights

	// Attenuation is 1 / (Attenuation0 + Attenuation1*d + Attenuation2*d*d).
	Attenuation0 float64
	Attenuation1 float64
	Attenuation2 float64

	Theta float64 // Inner cone angle in radians (full angle)
	Phi   float64 // Outer cone angle in radians (full angle)
}
