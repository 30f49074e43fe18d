package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a flat width×height grid of packed 0x00RRGGBB pixels,
// indexed by y*Width+x with row 0 at the top.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Clear fills the framebuffer with a packed color.
func (fb *Framebuffer) Clear(p uint32) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// copy-doubling
	fb.Pixels[0] = p
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y). Out-of-bounds writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, p uint32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = p
}

// GetPixel returns the packed pixel at (x, y), or 0 if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// ColorAt returns the pixel at (x, y) as a Color.
func (fb *Framebuffer) ColorAt(x, y int) Color {
	return Unpack(fb.GetPixel(x, y))
}

// DrawLine draws a line from (x1, y1) towards (x2, y2) using Bresenham's
// algorithm. The end point itself is not drawn, so closed outlines do not
// plot shared corners twice. A zero-length line plots its single point.
func (fb *Framebuffer) DrawLine(x1, y1, x2, y2 int, p uint32) {
	dx, dy := x2-x1, y2-y1
	xstep, ystep := 1, 1
	if dx < 0 {
		dx, xstep = -dx, -1
	}
	if dy < 0 {
		dy, ystep = -dy, -1
	}

	switch {
	case dx == 0 && dy == 0:
		fb.SetPixel(x1, y1, p)

	case dx == 0:
		for y := y1; y != y2; y += ystep {
			fb.SetPixel(x1, y, p)
		}

	case dy == 0:
		for x := x1; x != x2; x += xstep {
			fb.SetPixel(x, y1, p)
		}

	case dx > dy:
		// Shallow: unit steps in x.
		e := dx - 2*dy
		for x, y := x1, y1; x != x2; x += xstep {
			fb.SetPixel(x, y, p)
			if e < 0 {
				e += 2 * dx
				y += ystep
			}
			e -= 2 * dy
		}

	default:
		// Steep: unit steps in y.
		e := dy - 2*dx
		for x, y := x1, y1; y != y2; y += ystep {
			fb.SetPixel(x, y, p)
			if e < 0 {
				e += 2 * dy
				x += xstep
			}
			e -= 2 * dx
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, p uint32) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, p)
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyRGBA(img.Pix)
	return img
}

// CopyRGBA writes the pixels as opaque 8-bit RGBA into dst, which must hold
// at least Width*Height*4 bytes.
func (fb *Framebuffer) CopyRGBA(dst []byte) {
	for i, p := range fb.Pixels {
		o := i * 4
		dst[o] = uint8(p >> 16)
		dst[o+1] = uint8(p >> 8)
		dst[o+2] = uint8(p)
		dst[o+3] = 0xff
	}
}

// At implements the read side of image.Image so a framebuffer can be handed
// straight to encoders.
func (fb *Framebuffer) At(x, y int) color.Color {
	p := fb.GetPixel(x, y)
	return color.RGBA{uint8(p >> 16), uint8(p >> 8), uint8(p), 0xff}
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
