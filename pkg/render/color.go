package render

import (
	"image/color"

	"github.com/taigrr/fixpipe/pkg/math3d"
)

// Color is a linear RGB triple with channels nominally in [0, 1].
// Lighting sums may exceed 1; Pack clamps on the way out.
type Color struct {
	R, G, B float64
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{1, 1, 1}
	ColorRed     = Color{1, 0, 0}
	ColorGreen   = Color{0, 1, 0}
	ColorBlue    = Color{0, 0, 1}
	ColorYellow  = Color{1, 1, 0}
	ColorCyan    = Color{0, 1, 1}
	ColorMagenta = Color{1, 0, 1}
	ColorGray    = Color{0.5, 0.5, 0.5}
)

// NewColor creates a color from float channels.
func NewColor(r, g, b float64) Color {
	return Color{r, g, b}
}

// RGB creates a color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// ColorFromRGBA converts any color.Color, dropping alpha.
func ColorFromRGBA(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit values
	return Color{float64(r) / 0xffff, float64(g) / 0xffff, float64(b) / 0xffff}
}

// Unpack decodes a 0x00RRGGBB pixel.
func Unpack(p uint32) Color {
	return RGB(uint8(p>>16), uint8(p>>8), uint8(p))
}

// Add returns the channel-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the channel-wise product (modulation).
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Sub returns the channel-wise difference.
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B}
}

// Lerp interpolates between c and o.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		math3d.Lerp(c.R, o.R, t),
		math3d.Lerp(c.G, o.G, t),
		math3d.Lerp(c.B, o.B, t),
	}
}

// Equals reports whether every channel is within math3d.Epsilon.
func (c Color) Equals(o Color) bool {
	return math3d.FloatEquals(c.R, o.R) && math3d.FloatEquals(c.G, o.G) && math3d.FloatEquals(c.B, o.B)
}

// Pack converts to 8 bits per channel, rounding and clamping to [0, 255],
// and returns 0x00RRGGBB.
func (c Color) Pack() uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

// RGBA converts to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{channel(c.R), channel(c.G), channel(c.B), 255}
}

func channel(v float64) uint8 {
	i := int(v*255 + 0.5)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}
