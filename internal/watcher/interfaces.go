// Package watcher reports debounced changes to a board's fabrication files.
package watcher

import "context"

// FileWatcher batches file system events for a set of layer files.
type FileWatcher interface {
	// Start calls callback with each batch of changed paths once the files
	// have been quiet for the debounce period. Batches are delivered one at
	// a time from a single goroutine.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop ends watching. It is safe to call more than once, and before Start.
	Stop() error

	// Pause holds batches back; changes keep accumulating.
	Pause()

	// Resume delivers anything held back during a pause.
	Resume()
}
