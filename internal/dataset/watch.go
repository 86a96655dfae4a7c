package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"scatterview/internal/logging"
)

// Watcher reports debounced changes to a single file. The parent directory is
// watched so that editors replacing the file by rename are seen too.
type Watcher struct {
	w        *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan string
}

func Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{w: fw, path: abs, debounce: debounce, changes: make(chan string, 1)}
	go w.run(ctx)
	return w, nil
}

// Changes yields the file path once per debounced burst of writes. It is
// closed when the watcher stops.
func (w *Watcher) Changes() <-chan string { return w.changes }

func (w *Watcher) Path() string { return w.path }

func (w *Watcher) Close() error { return w.w.Close() }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.w.Close()
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event, w.path) {
				continue
			}
			if !pending {
				timer.Reset(w.debounce)
				pending = true
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("watch error", "path", w.path, "err", err)
		case <-timer.C:
			pending = false
			select {
			case w.changes <- w.path:
			default:
			}
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return true
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) == 0
}
