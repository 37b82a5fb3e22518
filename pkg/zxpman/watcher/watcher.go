// Package watcher observes the extensions root for plugin installs and
// removals performed outside the application, so the UI can refresh
// its plugin list.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cepkit/zxpman/pkg/zxpman/logging"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before a change is reported. Extracting an archive touches many
// files; one report per install is enough.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the extensions root directory, non-recursively.
// Installs and removals both change the root's immediate children.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	log      *logging.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a Watcher for root. The root directory must exist.
func New(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		root:     root,
		debounce: debounce,
		log:      logging.Get("watcher"),
	}, nil
}

// Run delivers one onChange call per burst of filesystem events. It
// blocks until the context is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			w.log.Debug("extensions root changed", "path", event.Name, "op", event.Op.String())
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if onChange != nil {
				onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
