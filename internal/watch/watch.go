// Package watch re-runs an action when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/safequery/internal/debug"
)

// DefaultDebounce is how long a burst of events must settle before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a file for changes
type Watcher struct {
	file     string
	callback func(ctx context.Context) error
	debounce time.Duration
	watcher  *fsnotify.Watcher

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a new file watcher. The parent directory is watched so
// editors that replace the file on save are still observed.
func NewWatcher(file string, debounce time.Duration, callback func(ctx context.Context) error) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		debounce: debounce,
		watcher:  watcher,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start runs the callback once, then again after every settled change until
// ctx ends or Stop is called. Callback errors after the first run are
// logged, not returned.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.callback(ctx); err != nil {
		close(w.stopped)
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err != nil || path != w.file {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			debug.Debug("watched file changed", "file", w.file)
			if err := w.callback(ctx); err != nil {
				debug.Error("watch callback failed", "file", w.file, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Warn("watch error", "file", w.file, "error", err)

		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// Wait blocks until the watch loop has exited.
func (w *Watcher) Wait() {
	<-w.stopped
}

// Stop stops watching the file. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
