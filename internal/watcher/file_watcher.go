package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// relevantOps are the operations that can change what a layer file contains.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

type fileWatcher struct {
	fsw   *fsnotify.Watcher
	match func(path string) bool
	quiet time.Duration

	mu      sync.Mutex
	paused  bool
	pending map[string]fsnotify.Op

	resumed  chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// NewFileWatcher watches the given directories (not recursively) and reports
// changes to files accepted by match. Editors and CAD exporters that save by
// renaming a temp file over the original are covered because the directory
// is watched, not the file. A non-positive debounce uses DefaultDebounce.
func NewFileWatcher(dirs []string, match func(path string) bool, debounce time.Duration) (FileWatcher, error) {
	if match == nil {
		return nil, fmt.Errorf("file watcher needs a match function")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	added := make(map[string]bool)
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if added[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		added[dir] = true
	}

	return &fileWatcher{
		fsw:     fsw,
		match:   match,
		quiet:   debounce,
		pending: make(map[string]fsnotify.Op),
		resumed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}, nil
}

func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}
	ctx, fw.cancel = context.WithCancel(ctx)
	go fw.run(ctx, callback)
	return nil
}

func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.done
		} else {
			close(fw.done)
		}
		err = fw.fsw.Close()
	})
	return err
}

func (fw *fileWatcher) Pause() {
	fw.mu.Lock()
	fw.paused = true
	fw.mu.Unlock()
}

func (fw *fileWatcher) Resume() {
	fw.mu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.mu.Unlock()

	if !wasPaused {
		return
	}
	// The run loop delivers, so callbacks never overlap.
	select {
	case fw.resumed <- struct{}{}:
	default:
	}
}

// run owns the debounce timer and is the only goroutine that calls back.
func (fw *fileWatcher) run(ctx context.Context, callback func(files []string)) {
	defer close(fw.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 || !fw.match(event.Name) {
				continue
			}
			fw.mu.Lock()
			fw.pending[filepath.Clean(event.Name)] |= event.Op
			fw.mu.Unlock()

			if timer == nil {
				timer = time.NewTimer(fw.quiet)
			} else {
				timer.Reset(fw.quiet)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fw.deliver(callback)

		case <-fw.resumed:
			fw.deliver(callback)

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// deliver hands the pending batch to callback, sorted by path. While paused
// the batch is kept for the next Resume.
func (fw *fileWatcher) deliver(callback func(files []string)) {
	fw.mu.Lock()
	if fw.paused || len(fw.pending) == 0 {
		fw.mu.Unlock()
		return
	}
	batch := fw.pending
	fw.pending = make(map[string]fsnotify.Op)
	fw.mu.Unlock()

	files := make([]string, 0, len(batch))
	for path, op := range batch {
		if op&(fsnotify.Write|fsnotify.Create) == 0 {
			log.Printf("Board file removed: %s", filepath.Base(path))
		}
		files = append(files, path)
	}
	sort.Strings(files)
	callback(files)
}
