package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells inside area.
//
// Each cell shows two framebuffer rows with the upper half block ▀: the
// foreground is the top pixel and the background the bottom pixel, so the
// framebuffer should be twice as tall as area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: pixelColor(fb.GetPixel(x, topY)),
					Bg: pixelColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// TerminalPresenter draws each presented frame onto an ultraviolet screen.
type TerminalPresenter struct {
	Screen uv.Screen
	Area   uv.Rectangle
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	fb.Draw(p.Screen, p.Area)
	return nil
}

func pixelColor(p uint32) color.Color {
	return color.RGBA{uint8(p >> 16), uint8(p >> 8), uint8(p), 0xff}
}
