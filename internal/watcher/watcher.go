// Package watcher delivers debounced creation events for a single directory.
//
// The watch is non-recursive: only entries appearing directly inside the
// watched root are reported. New files are held back by a per-path settle
// timer and emitted once their size and mtime stop changing, so consumers
// never see a file mid-write. Settling runs on timers (time.AfterFunc), never
// on the fsnotify delivery goroutine, so one slow file cannot starve others.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory for new entries.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	watcher *fsnotify.Watcher

	pending map[string]*pendingFile // path -> settling state
	mu      sync.Mutex              // protects pending map

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// pendingFile tracks a new file that may still be changing.
type pendingFile struct {
	path    string
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a new watcher.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  logger,
		opts:    opts,
		watcher: fsw,
		pending: make(map[string]*pendingFile),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a directory to be monitored. The watch is non-recursive.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch path is not a directory: %s", path)
	}

	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}

	w.logger.Debug("added watch", "path", path)
	return nil
}

// Start begins watching for events. Blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return nil
}

// processEvents drains the fsnotify channels.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.errors <- err
		}
	}
}

// handleFsnotifyEvent turns raw fsnotify events into settled creation events.
func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	path := event.Name

	// A removed entry can no longer settle.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		return
	}

	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(path)
		if err != nil {
			// Created and gone before we could stat it.
			w.logger.Debug("created entry vanished before stat", "path", path)
			return
		}
		if info.IsDir() {
			// Directories are reported immediately; there is nothing to
			// settle and the pipeline only wants to log and ignore them.
			w.emitEvent(Event{Path: path, IsDir: true, ModTime: info.ModTime()})
			return
		}
	}

	// Writes extend the settle window of files we are already tracking.
	// Writes to files we never saw created are not creations; ignore them.
	if event.Op&fsnotify.Create != 0 {
		w.startSettling(path)
	} else if event.Op&fsnotify.Write != 0 {
		w.extendSettling(path)
	}
}

// startSettling begins or restarts the settling process for a file.
func (w *Watcher) startSettling(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug("file vanished while settling", "path", path)
		delete(w.pending, path)
		return
	}

	pending := &pendingFile{
		path:    path,
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
		w.checkSettled(path)
	})

	w.pending[path] = pending
}

// extendSettling restarts the timer for a file already being tracked.
func (w *Watcher) extendSettling(path string) {
	w.mu.Lock()
	tracked := w.pending[path] != nil
	w.mu.Unlock()

	if tracked {
		w.startSettling(path)
	}
}

// checkSettled decides whether a pending file has finished settling.
func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, exists := w.pending[path]
	if !exists {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// Deleted or moved away during the settle window. Not an error:
		// another actor got there first.
		delete(w.pending, path)
		w.logger.Info("file vanished during settle window", "path", path)
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		// Still being written, restart the window.
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
			w.checkSettled(path)
		})
		return
	}

	delete(w.pending, path)

	w.emitEvent(Event{
		Path:    path,
		IsDir:   false,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

// cancelPending drops the settling state for a path.
func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
		delete(w.pending, path)
	}
}

// emitEvent sends an event to the events channel.
func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel for receiving creation events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	for _, pending := range w.pending {
		pending.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	w.watcher.Close()

	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return nil
}
