//go:build cgo

package window

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/fixpipe/pkg/host"
	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

// Run opens the window and blocks until it is closed, Esc is pressed or ctx
// is done.
func (w *Window) Run(ctx context.Context) error {
	fps := w.FPS
	if fps <= 0 {
		fps = 60
	}
	scale := max(w.Scale, 1)

	cfg := w.Scene.Config
	d := render.NewDevice(cfg.Width, cfg.Height)
	if err := w.Scene.Setup(d); err != nil {
		return err
	}
	p := newPresenter(cfg.Width, cfg.Height)
	d.SetPresenter(p)

	g := &game{
		ctx:       ctx,
		scene:     w.Scene,
		device:    d,
		presenter: p,
		orbit:     host.NewOrbit(w.Scene.Camera, fps),
		hud:       host.NewHUD(w.Scene.Name()),
		dt:        1 / float64(fps),
	}

	ebiten.SetWindowTitle("fixpipe: " + w.Scene.Name())
	ebiten.SetWindowSize(cfg.Width*scale, cfg.Height*scale)
	ebiten.SetTPS(fps)
	render.Logger().Info("window: opened", "scene", w.Scene.Name(), "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(g)
}

type game struct {
	ctx       context.Context
	scene     *scene.Scene
	device    *render.Device
	presenter *presenter
	img       *ebiten.Image
	orbit     *host.Orbit
	hud       *host.HUD
	overrides host.Overrides
	paused    bool
	dt        float64

	dragging     bool
	lastX, lastY int
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if !g.input() {
		return ebiten.Termination
	}

	g.orbit.Update(g.scene.Camera)
	if !g.paused {
		g.scene.Update(g.dt)
	}
	g.device.ResetStats()
	g.scene.Draw(g.device)
	if err := g.device.Present(); err != nil {
		return err
	}

	g.hud.Tick()
	ebiten.SetWindowTitle("fixpipe: " + g.hud.Summary(g.device.Stats()))
	return nil
}

// input applies this tick's keyboard and mouse state and reports whether to
// keep running.
func (g *game) input() bool {
	const impulse = 0.05

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return false
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.orbit.ApplyImpulse(-impulse/4, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.orbit.ApplyImpulse(impulse/4, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.orbit.ApplyImpulse(0, impulse/4)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.orbit.ApplyImpulse(0, -impulse/4)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.orbit.Zoom(-0.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.orbit.Zoom(0.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.orbit.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.overrides.ToggleWireframe(g.device, g.scene.Config.Fill)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.overrides.CycleShade(g.device)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.overrides.ToggleLighting(g.device)
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.orbit.ApplyImpulse(float64(x-g.lastX)*0.002, float64(g.lastY-y)*0.002)
		}
		g.dragging = true
		g.lastX, g.lastY = x, y
	} else {
		g.dragging = false
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.orbit.Zoom(-wy * 0.5)
	}
	return true
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.device.Width(), g.device.Height())
	}
	if pix := g.presenter.take(); pix != nil {
		g.img.WritePixels(pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.device.Width(), g.device.Height()
}
