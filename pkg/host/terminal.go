package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

// Terminal shows a scene in the terminal. Every cell holds two vertically
// stacked pixels, so the device is as wide as the terminal and twice as
// tall.
//
// Controls:
//
//	Mouse drag, arrows, WASD  - Orbit the camera
//	Scroll, +/-               - Zoom
//	Space                     - Pause the scene's spin
//	X                         - Toggle wireframe
//	M                         - Cycle flat, Gouraud and Phong shading
//	L                         - Toggle lighting
//	R                         - Reset the camera
//	?                         - Toggle the HUD
//	Esc, Q, Ctrl+C            - Quit
type Terminal struct {
	Scene *scene.Scene
	FPS   int
	// ConfigPath, when set, is watched and reloaded on change.
	ConfigPath string
	ShowHUD    bool
}

// Run takes over the terminal until the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	_ = term.Resize(width, height)

	// Any-event mouse tracking with SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	v, err := newViewer(t.Scene, term, t.FPS, width, height)
	if err != nil {
		return err
	}
	v.showHUD = t.ShowHUD
	v.display = term.Display
	v.resizeScreen = term.Resize

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-term.Events():
				if !ok {
					return nil
				}
				if v.handle(ev) {
					cancel()
					return nil
				}
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		if err := NewLoop(t.FPS).Run(ctx, v.frame); err != nil {
			return err
		}
		return v.error()
	})

	if t.ConfigPath != "" {
		g.Go(func() error {
			return scene.Watch(ctx, t.ConfigPath, v.reload)
		})
	}

	return g.Wait()
}

// viewer is the state shared by the input and render goroutines.
type viewer struct {
	mu sync.Mutex

	scene     *scene.Scene
	device    *render.Device
	presenter *render.TerminalPresenter
	orbit     *Orbit
	hud       *HUD
	fps       int

	cols, rows int
	resized    bool
	pending    *scene.Config

	showHUD   bool
	paused    bool
	overrides Overrides

	dragging bool
	lastX    int
	lastY    int

	display      func() error
	resizeScreen func(w, h int) error
	err          error
}

func newViewer(s *scene.Scene, scr uv.Screen, fps, cols, rows int) (*viewer, error) {
	v := &viewer{
		scene:     s,
		presenter: &render.TerminalPresenter{Screen: scr},
		hud:       NewHUD(s.Name()),
		fps:       fps,
		cols:      cols,
		rows:      rows,
		display:   func() error { return nil },
	}
	if err := v.setup(); err != nil {
		return nil, err
	}
	v.orbit = NewOrbit(s.Camera, fps)
	return v, nil
}

// setup builds a device for the current terminal size and loads the scene
// onto it.
func (v *viewer) setup() error {
	d := render.NewDevice(max(v.cols, 1), max(v.rows*2, 1))
	if err := v.scene.Setup(d); err != nil {
		return err
	}
	d.SetPresenter(v.presenter)
	v.presenter.Area = uv.Rect(0, 0, v.cols, v.rows)
	v.device = d
	v.overrides.Apply(d)
	return nil
}

// handle applies one input event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	const impulse = 0.05

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.cols, v.rows = ev.Width, ev.Height
		v.resized = true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "q", "ctrl+c"):
			return true
		case ev.MatchString("w", "up"):
			v.orbit.ApplyImpulse(0, impulse)
		case ev.MatchString("s", "down"):
			v.orbit.ApplyImpulse(0, -impulse)
		case ev.MatchString("a", "left"):
			v.orbit.ApplyImpulse(-impulse, 0)
		case ev.MatchString("d", "right"):
			v.orbit.ApplyImpulse(impulse, 0)
		// MatchString splits on "+", so the plus key is matched by text.
		case ev.Text == "+", ev.MatchString("="):
			v.orbit.Zoom(-0.5)
		case ev.MatchString("-", "_"):
			v.orbit.Zoom(0.5)
		case ev.MatchString("r"):
			v.orbit.Reset()
		case ev.MatchString("space"):
			v.paused = !v.paused
		case ev.MatchString("x"):
			v.overrides.ToggleWireframe(v.device, v.scene.Config.Fill)
		case ev.MatchString("m"):
			v.overrides.CycleShade(v.device)
		case ev.MatchString("l"):
			v.overrides.ToggleLighting(v.device)
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.orbit.ApplyImpulse(float64(dx)*0.01, float64(-dy)*0.02)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.orbit.Zoom(-0.5)
		case uv.MouseWheelDown:
			v.orbit.Zoom(0.5)
		}
	}
	return false
}

// reload queues a new config for the next frame.
func (v *viewer) reload(cfg scene.Config) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = &cfg
}

// frame is the FrameFunc of the render loop. It stops the loop on error.
func (v *viewer) frame(dt float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pending != nil {
		v.applyReload(*v.pending)
		v.pending = nil
		if v.err != nil {
			return false
		}
	}
	if v.resized {
		v.resized = false
		if v.resizeScreen != nil {
			_ = v.resizeScreen(v.cols, v.rows)
		}
		if err := v.setup(); err != nil {
			v.err = fmt.Errorf("resize: %w", err)
			return false
		}
	}

	v.orbit.Update(v.scene.Camera)
	if !v.paused {
		v.scene.Update(dt)
	}
	v.device.ResetStats()
	v.scene.Draw(v.device)
	if err := v.device.Present(); err != nil {
		v.err = err
		return false
	}

	v.hud.Tick()
	if v.showHUD {
		v.hud.Draw(v.presenter.Screen, v.presenter.Area, v.device.Stats(), StatusOf(v.device, v.paused))
	}
	if err := v.display(); err != nil {
		v.err = fmt.Errorf("display: %w", err)
		return false
	}
	return true
}

// applyReload swaps in cfg, keeping the previous config if it fails to load.
func (v *viewer) applyReload(cfg scene.Config) {
	prev := v.scene.Config
	v.scene.Config = cfg
	if err := v.setup(); err != nil {
		render.Logger().Warn("host: reload failed", "error", err)
		v.scene.Config = prev
		if err := v.setup(); err != nil {
			v.err = errors.Join(v.err, err)
		}
		return
	}
	v.hud.Name = v.scene.Name()
	v.orbit = NewOrbit(v.scene.Camera, v.fps)
}

func (v *viewer) error() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
