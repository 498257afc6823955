package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a file must stay quiet before it is handed on.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports files that were created or written under a directory tree
// once they stop changing.
type Watcher struct {
	fsw    *fsnotify.Watcher
	match  func(path string) bool
	settle time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New watches root and every directory beneath it. Only paths accepted by
// match are reported.
func New(root string, match func(path string) bool, settle time.Duration, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	w := &Watcher{
		fsw:     fsw,
		match:   match,
		settle:  settle,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers settled paths to handle until ctx is cancelled. handle is
// never called concurrently.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	defer w.fsw.Close()

	ready := make(chan string, 64)
	done := make(chan struct{})
	defer close(done)
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-ready:
			handle(path)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, ready, done)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, ready chan<- string, done <-chan struct{}) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("Cannot watch directory", zap.String("path", ev.Name), zap.Error(err))
			}
			return
		}
	}

	if w.match != nil && !w.match(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[ev.Name]; ok {
		timer.Reset(w.settle)
		return
	}
	path := ev.Name
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-done:
		}
	})
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", zap.String("path", path))
		return nil
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
