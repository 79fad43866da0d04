// Package watch delivers coalesced filesystem change notifications for a set
// of directory trees, as the event-driven trigger for watch-mode passes.
package watch

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"assetdump/internal/ports"
)

// DefaultWindow is how long incoming events are coalesced before one
// onChange call fires for the whole burst.
const DefaultWindow = 250 * time.Millisecond

// Watcher wraps fsnotify to watch directory trees recursively. Event
// delivery is best-effort; callers keep a polling fallback for correctness.
type Watcher struct {
	fsw    *fsnotify.Watcher
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Ensure Watcher implements TreeWatcher
var _ ports.TreeWatcher = (*Watcher)(nil)

// New creates a watcher with the default coalescing window. It fails when
// the platform has no usable notification facility; callers degrade to
// polling in that case.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:    fsw,
		window: DefaultWindow,
		done:   make(chan struct{}),
	}, nil
}

// Watch registers every directory under dirs and starts dispatching
// coalesced onChange calls. Directories that do not exist yet are skipped;
// directories created later under a watched tree are picked up on the fly.
func (w *Watcher) Watch(dirs []string, onChange func()) error {
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			return err
		}
	}
	go w.dispatch(onChange)
	return nil
}

// Close stops event delivery and releases watch resources.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// addTree walks dir and registers every directory in it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Roots may be declared before they exist.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			logrus.Debugf("cannot watch %s: %v", path, err)
		}
		return nil
	})
}

// dispatch collects events and fires onChange once per burst.
func (w *Watcher) dispatch(onChange func()) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// New subdirectory: extend the watch so edits
				// inside it are seen too.
				_ = w.addTree(event.Name)
			}
			w.bump(onChange)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logrus.Warnf("watch error: %v", err)
		}
	}
}

// bump starts or extends the coalescing window.
func (w *Watcher) bump(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.window)
		return
	}
	w.timer = time.AfterFunc(w.window, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()

		select {
		case <-w.done:
		default:
			onChange()
		}
	})
}
