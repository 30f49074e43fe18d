// Package window shows a scene in a desktop window through ebiten. It lives
// apart from package host so that terminal and headless builds do not need
// the graphics stack. Builds without cgo get a Run that always fails.
package window

import (
	"errors"

	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

// ErrUnavailable is returned by Run in builds without a window backend.
var ErrUnavailable = errors.New("window mode requires cgo (build with CGO_ENABLED=1)")

// Window runs a scene in a desktop window. The keys match the terminal
// viewer; the left mouse button drags the orbit.
type Window struct {
	Scene *scene.Scene
	FPS   int
	// Scale multiplies the window size over the device size.
	Scale int
}

// presenter keeps the last presented frame as RGBA bytes until the window
// draws it.
type presenter struct {
	pix   []byte
	dirty bool
}

func newPresenter(width, height int) *presenter {
	return &presenter{pix: make([]byte, width*height*4)}
}

// Present implements render.Presenter.
func (p *presenter) Present(fb *render.Framebuffer) error {
	fb.CopyRGBA(p.pix)
	p.dirty = true
	return nil
}

// take returns the pending frame, or nil if nothing new was presented.
func (p *presenter) take() []byte {
	if !p.dirty {
		return nil
	}
	p.dirty = false
	return p.pix
}
