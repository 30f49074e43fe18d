package host

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/fixpipe/pkg/render"
)

// Status is the device state the HUD reports.
type Status struct {
	Fill     render.FillMode
	Shade    render.ShadeMode
	Lighting bool
	Paused   bool
}

// StatusOf reads the HUD status from d.
func StatusOf(d *render.Device, paused bool) Status {
	return Status{
		Fill:     d.RenderState(),
		Shade:    d.ShadeMode(),
		Lighting: d.LightEnabled(),
		Paused:   paused,
	}
}

var (
	hudBase  = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#f0f0f0"))
	hudFPS   = hudBase.Foreground(lipgloss.Color("#5fff87"))
	hudTitle = hudBase.Bold(true)
	hudStats = hudBase.Foreground(lipgloss.Color("#5fd7ff"))
	hudHint  = hudBase.Faint(true).Foreground(lipgloss.Color("#ffff5f"))
)

// HUD is the overlay with the frame rate, the scene name, the triangle
// statistics and the render mode.
type HUD struct {
	Name string

	fps    float64
	frames int
	since  time.Time
	now    func() time.Time
}

// NewHUD creates a HUD for the named scene.
func NewHUD(name string) *HUD {
	h := &HUD{Name: name, now: time.Now}
	h.since = h.now()
	return h
}

// Tick counts a frame. The rate is refreshed once per second.
func (h *HUD) Tick() {
	h.frames++
	elapsed := h.now().Sub(h.since)
	if elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.since = h.now()
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 { return h.fps }

// Summary is a plain one-line report, used as a window title.
func (h *HUD) Summary(st render.Stats) string {
	return fmt.Sprintf("%s | %.0f FPS | %s", h.Name, h.fps, statsLine(st))
}

func statsLine(st render.Stats) string {
	return fmt.Sprintf("%d tris  %d drawn  %d culled  %d clipped", st.Triangles, st.Drawn, st.Culled, st.Clipped)
}

// Top renders the first HUD row for a terminal width columns wide.
func (h *HUD) Top(width int, st render.Stats) string {
	left := hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps))
	title := hudTitle.Render(" " + h.Name + " ")
	right := hudStats.Render(" " + statsLine(st) + " ")
	return spread(width, left, title, right)
}

// Bottom renders the last HUD row: render modes and key hints.
func (h *HUD) Bottom(width int, s Status) string {
	modes := []string{
		s.Fill.String(),
		s.Shade.String(),
		checkbox(s.Lighting) + " light",
	}
	if s.Paused {
		modes = append(modes, "paused")
	}
	left := hudBase.Render(" " + strings.Join(modes, "  ") + " ")
	hint := hudHint.Render(" x wire  m shade  l light  space pause  ? hud ")
	return spread(width, left, "", hint)
}

// Draw paints both HUD rows over the first and last row of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st render.Stats, s Status) {
	if area.Dy() < 2 {
		return
	}
	w := area.Dx()
	uv.NewStyledString(h.Top(w, st)).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, w, 1))
	uv.NewStyledString(h.Bottom(w, s)).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, w, 1))
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// spread places left, middle and right on one line of the given width,
// padding with styled spaces. Segments that do not fit are dropped from the
// middle outwards.
func spread(width int, left, middle, right string) string {
	used := lipgloss.Width(left) + lipgloss.Width(middle) + lipgloss.Width(right)
	if used > width {
		middle = ""
		used = lipgloss.Width(left) + lipgloss.Width(right)
	}
	if used > width {
		right = ""
		used = lipgloss.Width(left)
	}
	gap := max(width-used, 0)
	before := gap / 2
	if middle == "" {
		before = gap
	}
	return left + hudBase.Render(strings.Repeat(" ", before)) + middle +
		hudBase.Render(strings.Repeat(" ", gap-before)) + right
}
