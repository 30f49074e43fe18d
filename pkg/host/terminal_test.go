package host

import (
	"errors"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

func newTestViewer(t *testing.T, name string, cols, rows int) (*viewer, uv.ScreenBuffer) {
	t.Helper()
	s, err := scene.New(name)
	require.NoError(t, err)
	scr := uv.NewScreenBuffer(cols, rows)
	v, err := newViewer(s, scr, 60, cols, rows)
	require.NoError(t, err)
	return v, scr
}

func key(text string) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: []rune(text)[0], Text: text}
}

func halfBlocks(scr uv.ScreenBuffer) int {
	n := 0
	for y := range scr.Height() {
		for x := range scr.Width() {
			if c := scr.CellAt(x, y); c != nil && c.Content == "▀" {
				n++
			}
		}
	}
	return n
}

func TestViewerFrame(t *testing.T) {
	v, scr := newTestViewer(t, "cube", 40, 15)
	assert.Equal(t, 40, v.device.Width())
	assert.Equal(t, 30, v.device.Height(), "two pixels per cell")

	displayed := 0
	v.display = func() error {
		displayed++
		return nil
	}

	assert.True(t, v.frame(1.0/60))
	assert.Equal(t, 1, displayed)
	assert.Equal(t, 40*15, halfBlocks(scr))
	assert.Equal(t, 12, v.device.Stats().Triangles)
	assert.Positive(t, v.device.Stats().Pixels)
}

func TestViewerHUD(t *testing.T) {
	v, scr := newTestViewer(t, "cube", 80, 20)
	v.showHUD = true
	require.True(t, v.frame(0))
	assert.Equal(t, 80*18, halfBlocks(scr), "first and last rows hold the HUD")
	assert.Contains(t, scr.Line(0).String(), "cube")

	assert.False(t, v.handle(key("?")))
	require.True(t, v.frame(0))
	assert.Equal(t, 80*20, halfBlocks(scr))
}

func TestViewerQuitKeys(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	assert.True(t, v.handle(key("q")))
	assert.True(t, v.handle(uv.KeyPressEvent{Code: uv.KeyEscape}))
	assert.True(t, v.handle(uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}))
	assert.False(t, v.handle(key("w")))
}

func TestViewerModeKeys(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	require.Equal(t, render.FillColor, v.device.RenderState())
	require.Equal(t, render.ShadeGouraud, v.device.ShadeMode())
	require.False(t, v.device.LightEnabled())

	v.handle(key("x"))
	v.handle(key("m"))
	v.handle(key("l"))
	v.handle(uv.KeyPressEvent{Code: uv.KeySpace, Text: " "})
	assert.Equal(t, render.FillWireframe, v.device.RenderState())
	assert.Equal(t, render.ShadePhong, v.device.ShadeMode())
	assert.True(t, v.device.LightEnabled())
	assert.True(t, v.paused)

	st := StatusOf(v.device, v.paused)
	assert.Equal(t, Status{Fill: render.FillWireframe, Shade: render.ShadePhong, Lighting: true, Paused: true}, st)

	v.handle(key("x"))
	assert.Equal(t, render.FillColor, v.device.RenderState())
}

func TestViewerPauseStopsSpin(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	require.True(t, v.frame(0.5))
	before := v.scene.World()

	v.handle(uv.KeyPressEvent{Code: uv.KeySpace, Text: " "})
	require.True(t, v.frame(0.5))
	assert.Equal(t, before, v.scene.World())

	v.handle(uv.KeyPressEvent{Code: uv.KeySpace, Text: " "})
	require.True(t, v.frame(0.5))
	assert.NotEqual(t, before, v.scene.World())
}

func TestViewerOrbitInput(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)

	v.handle(key("d"))
	assert.InDelta(t, 0.05, v.orbit.Yaw.Velocity, 1e-12)
	v.handle(uv.KeyPressEvent{Code: uv.KeyUp})
	assert.InDelta(t, 0.05, v.orbit.Pitch.Velocity, 1e-12)

	goal := v.orbit.Goal()
	v.handle(uv.MouseWheelEvent{Button: uv.MouseWheelDown})
	assert.InDelta(t, goal+0.5, v.orbit.Goal(), 1e-12)
	v.handle(key("+"))
	assert.InDelta(t, goal, v.orbit.Goal(), 1e-12)

	// Motion without a held button does nothing.
	v.handle(uv.MouseMotionEvent{X: 10, Y: 3})
	assert.InDelta(t, 0.05, v.orbit.Yaw.Velocity, 1e-12)

	v.handle(uv.MouseClickEvent{X: 5, Y: 5, Button: uv.MouseLeft})
	v.handle(uv.MouseMotionEvent{X: 15, Y: 4, Button: uv.MouseLeft})
	assert.InDelta(t, 0.05+0.1, v.orbit.Yaw.Velocity, 1e-12)
	assert.InDelta(t, 0.05+0.02, v.orbit.Pitch.Velocity, 1e-12)

	v.handle(uv.MouseReleaseEvent{X: 15, Y: 4})
	v.handle(uv.MouseMotionEvent{X: 30, Y: 4})
	assert.InDelta(t, 0.15, v.orbit.Yaw.Velocity, 1e-12)

	eye := v.scene.Camera.Position
	v.frame(1.0 / 60)
	assert.NotEqual(t, eye, v.scene.Camera.Position)

	v.handle(key("r"))
	assert.Zero(t, v.orbit.Yaw.Velocity)
}

func TestViewerResize(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	v.handle(key("x"))
	v.orbit.Zoom(3)

	var resized [2]int
	v.resizeScreen = func(w, h int) error {
		resized = [2]int{w, h}
		return nil
	}
	v.handle(uv.WindowSizeEvent{Width: 30, Height: 12})
	require.True(t, v.frame(0))

	assert.Equal(t, [2]int{30, 12}, resized)
	assert.Equal(t, 30, v.device.Width())
	assert.Equal(t, 24, v.device.Height())
	assert.Equal(t, render.FillWireframe, v.device.RenderState(), "toggles survive a resize")
	assert.InDelta(t, 30.0/24.0, v.scene.Camera.AspectRatio, 1e-12)
	assert.Greater(t, v.orbit.Goal(), 4.0, "camera state survives a resize")
}

func TestViewerReload(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	demo, ok := scene.Lookup("pyramid")
	require.True(t, ok)

	v.reload(demo.Config())
	require.True(t, v.frame(0))
	assert.Equal(t, "pyramid", v.scene.Name())
	assert.Equal(t, "pyramid", v.hud.Name)
	assert.True(t, v.device.LightEnabled())
	assert.Equal(t, 4, v.device.Stats().Triangles)
}

func TestViewerReloadFailureKeepsScene(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)

	bad := scene.DefaultConfig()
	bad.Mesh = "missing.glb"
	v.reload(bad)
	require.True(t, v.frame(0))
	require.NoError(t, v.error())
	assert.Equal(t, "cube", v.scene.Name())
	assert.Equal(t, 12, v.device.Stats().Triangles)
}

func TestViewerDisplayError(t *testing.T) {
	v, _ := newTestViewer(t, "cube", 20, 10)
	boom := errors.New("tty closed")
	v.display = func() error { return boom }

	assert.False(t, v.frame(0))
	assert.ErrorIs(t, v.error(), boom)
}
