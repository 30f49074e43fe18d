package scene

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/fixpipe/pkg/render"
)

// Watch reloads the scene file at path whenever it changes and passes each
// valid Config to reload. A file that fails to load is logged and skipped;
// the previous config stays in effect. Watch blocks until ctx is done.
//
// reload runs on the watcher goroutine.
func Watch(ctx context.Context, path string, reload func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch scene config: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file by renaming.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch scene config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch scene config: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				render.Logger().Warn("scene: reload rejected", "path", path, "error", err)
				continue
			}
			render.Logger().Info("scene: reloaded", "path", path)
			reload(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			render.Logger().Warn("scene: watcher error", "error", err)
		}
	}
}
