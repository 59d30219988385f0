// Package watch runs a callback whenever a file changes, with debouncing.
//
// It backs the jmfixture watch mode: point it at the source dictionary and
// regenerate the fixture on every settled write. fsnotify does the watching
// where available, with a polling fallback.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	interval time.Duration
}

// New creates a watcher for path with a 500ms debounce and a one second
// polling interval for the fallback.
func New(path string) *Watcher {
	return &Watcher{
		path:     path,
		debounce: 500 * time.Millisecond,
		interval: time.Second,
	}
}

// WithDebounce sets how long writes must settle before fn runs. Bulk tools
// rewrite files in many small writes; the debounce collapses them into one
// callback.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithPollInterval sets the polling fallback interval.
func (w *Watcher) WithPollInterval(d time.Duration) *Watcher {
	w.interval = d
	return w
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled, calling fn after each settled change
// to the watched file. An error from fn stops the watcher and is returned.
// Cancellation returns nil.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return w.runPolling(ctx, fn)
	}
	defer watcher.Close()

	// Watch the directory; watching the file directly breaks when editors
	// replace it via rename.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return w.runPolling(ctx, fn)
	}

	baseName := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			if err := fn(); err != nil {
				return err
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Usually recoverable; keep watching.
			_ = watchErr
		}
	}
}

// runPolling is the fallback when fsnotify is unavailable: compare
// modification time and size every interval.
func (w *Watcher) runPolling(ctx context.Context, fn func() error) error {
	var lastMod time.Time
	var lastSize int64

	if info, err := os.Stat(w.path); err == nil {
		lastMod = info.ModTime()
		lastSize = info.Size()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
				continue
			}
			lastMod = info.ModTime()
			lastSize = info.Size()
			if err := fn(); err != nil {
				return fmt.Errorf("watch callback: %w", err)
			}
		}
	}
}
