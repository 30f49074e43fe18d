package scene

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsValidChanges(t *testing.T) {
	path := writeFile(t, "scene.toml", "width = 100\nheight = 100\n")

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan Config, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config) { reloads <- c })
	}()

	// Keep rewriting until the watcher is up and reports the change. A
	// reload may also observe the truncated file in between.
	var got Config
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("width = 320\nheight = 100\n"), 0o644)
		select {
		case got = <-reloads:
			return got.Width == 320
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	// An invalid file is skipped; the next valid one still reloads.
	require.NoError(t, os.WriteFile(path, []byte("width = -1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("width = 640\nheight = 100\n"), 0o644))
	require.Eventually(t, func() bool {
		select {
		case got = <-reloads:
			return got.Width == 640
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/scene.toml", func(Config) {})
	assert.Error(t, err)
}
