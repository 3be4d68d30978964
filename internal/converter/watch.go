package converter

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mvp-joe/gerber2nc/internal/project"
	"github.com/mvp-joe/gerber2nc/internal/watcher"
)

// ResultHandler receives the outcome of every conversion in watch mode.
type ResultHandler func(files *project.Files, res *Result, err error)

// Watch converts the project whenever one of its layer files changes and
// passes each outcome to handle. Files are rediscovered on every change so
// layers exported after the watch started are picked up. Conversions run
// one at a time on the watcher goroutine, with the watcher paused so edits
// made mid-conversion arrive as the next batch. Watch blocks until ctx is
// done.
func (c *Converter) Watch(ctx context.Context, files *project.Files, debounce time.Duration, handle ResultHandler) error {
	fw, err := watcher.NewFileWatcher([]string{files.Dir}, files.Related, debounce)
	if err != nil {
		return fmt.Errorf("failed to watch project: %w", err)
	}

	current := files
	err = fw.Start(ctx, func(changed []string) {
		fw.Pause()
		defer fw.Resume()

		names := make([]string, len(changed))
		for i, p := range changed {
			names[i] = filepath.Base(p)
		}
		log.Printf("Detected changes: %v", names)

		next, err := current.Rediscover()
		if err != nil {
			handle(current, nil, err)
			return
		}
		current = next

		res, err := c.ConvertFiles(ctx, current)
		handle(current, res, err)
	})
	if err != nil {
		fw.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Printf("Watching %s for changes (Ctrl+C to stop)", files.Dir)
	<-ctx.Done()

	if err := fw.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	return nil
}
