// Package watch triggers a callback when a data file changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"hrdash/internal"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce absorbs the burst of events a single save produces
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc is called once per settled burst of changes
type ReloadFunc func(ctx context.Context) error

// FileWatcher watches the directory holding a file, since editors and
// exporters often replace files by rename, and fires after changes settle.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	reload   ReloadFunc
	logger   *internal.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// Stats tracks watcher activity
type Stats struct {
	Events    int       `json:"events"`
	Reloads   int       `json:"reloads"`
	Errors    int       `json:"errors"`
	LastEvent time.Time `json:"last_event"`
}

// NewFileWatcher creates a watcher for path. debounce <= 0 uses DefaultDebounce.
func NewFileWatcher(path string, reload ReloadFunc, debounce time.Duration, logger *internal.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &FileWatcher{
		watcher:  w,
		path:     abs,
		dir:      filepath.Dir(abs),
		reload:   reload,
		logger:   logger.WithComponent("FileWatcher"),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(fw.dir); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		return err
	}
	fw.logger.Info("watching %s", fw.path)

	go fw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		fw.watcher.Close()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	if err := fw.watcher.Close(); err != nil {
		fw.logger.Error("error closing watcher: %v", err)
	}
	fw.logger.Info("stopped")
}

// Stats returns a copy of the activity counters
func (fw *FileWatcher) Stats() Stats {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.stats
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	tick := fw.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("watch error: %v", err)
			fw.mu.Lock()
			fw.stats.Errors++
			fw.mu.Unlock()
		case <-ticker.C:
			fw.fireIfSettled(ctx)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	fw.logger.Debug("%s event for %s", event.Op, event.Name)

	fw.mu.Lock()
	now := time.Now()
	fw.pending = now
	fw.stats.Events++
	fw.stats.LastEvent = now
	fw.mu.Unlock()
}

func (fw *FileWatcher) fireIfSettled(ctx context.Context) {
	fw.mu.Lock()
	if fw.pending.IsZero() || time.Since(fw.pending) < fw.debounce {
		fw.mu.Unlock()
		return
	}
	fw.pending = time.Time{}
	fw.mu.Unlock()

	err := fw.reload(ctx)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if err != nil {
		fw.stats.Errors++
		fw.logger.Warn("reload after change to %s failed: %v", fw.path, err)
		return
	}
	fw.stats.Reloads++
}
