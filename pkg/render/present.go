package render

import (
	"fmt"
	"path/filepath"
)

// PNGPresenter writes every presented frame to a numbered PNG file.
type PNGPresenter struct {
	// Dir must already exist.
	Dir string
	// Pattern is a fmt pattern taking the frame number, e.g. "frame-%04d.png".
	Pattern string

	frame int
}

// NewPNGPresenter returns a presenter writing frame-0000.png, frame-0001.png
// and so on into dir.
func NewPNGPresenter(dir string) *PNGPresenter {
	return &PNGPresenter{Dir: dir, Pattern: "frame-%04d.png"}
}

// Present implements Presenter.
func (p *PNGPresenter) Present(fb *Framebuffer) error {
	path := filepath.Join(p.Dir, fmt.Sprintf(p.Pattern, p.frame))
	if err := fb.SavePNG(path); err != nil {
		return err
	}
	p.frame++
	Logger().Debug("render: frame written", "path", path)
	return nil
}

// Frames returns how many frames have been written.
func (p *PNGPresenter) Frames() int { return p.frame }
