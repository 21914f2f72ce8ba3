package reference

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store whenever its reference file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors and deploy tools that replace the file by rename are picked up.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	// onReload is called after every reload attempt. Used by tests.
	onReload func(*Table, error)
}

// NewWatcher prepares a watcher for path. Call Run to start it.
func NewWatcher(store *Store, path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		store:    store,
		path:     abs,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	slog.Info("reference watcher started", "path", w.path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reference watcher stopped")
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("reference file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("reference watcher error", "error", err)

		case <-timer.C:
			t, err := w.store.Reload(ctx)
			if w.onReload != nil {
				w.onReload(t, err)
			}
		}
	}
}

// relevant keeps content-changing events on the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
