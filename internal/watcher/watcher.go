// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before onChange fires
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of files for changes. onChange runs on the
// goroutine calling Watch, never concurrently with itself.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	onChange func(path string)
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for the given files. The containing directories are
// watched so files replaced by editors or rename-on-write are still seen.
func New(onChange func(path string), paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return w, nil
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Watch blocks until the context is cancelled, calling onChange once per
// burst of writes to a watched file. It closes the watcher on return.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.fs.Close()

	timers := make(map[string]*time.Timer)
	fired := make(chan string, len(w.files))
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for path := range w.files {
		w.logger.Info("watching for changes", "path", path)
	}

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if t, exists := timers[abs]; exists {
				t.Stop()
			}
			timers[abs] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- abs:
				default:
					// a change for this file is already pending
				}
			})

		case path := <-fired:
			w.logger.Info("file changed", "path", path)
			w.onChange(path)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
