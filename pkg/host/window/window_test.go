package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

func TestPresenterHandsOverEachFrameOnce(t *testing.T) {
	s, err := scene.New("cube")
	require.NoError(t, err)
	d := render.NewDevice(32, 24)
	require.NoError(t, s.Setup(d))

	p := newPresenter(32, 24)
	d.SetPresenter(p)
	assert.Nil(t, p.take(), "nothing presented yet")

	s.Draw(d)
	require.NoError(t, d.Present())
	pix := p.take()
	require.Len(t, pix, 32*24*4)
	assert.Nil(t, p.take())

	want := d.Framebuffer().ToImage()
	assert.Equal(t, want.Pix, pix)
	for i := 3; i < len(pix); i += 4 {
		require.Equal(t, byte(0xff), pix[i], "opaque")
	}
}
