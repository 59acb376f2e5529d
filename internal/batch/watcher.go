package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"cadvision/internal/perception"
)

// DefaultDebounce is how long an image must stay unchanged before it is
// processed.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherStopped is returned by Start once the watcher has been stopped.
// A Watcher is single-use.
var ErrWatcherStopped = errors.New("watcher already stopped")

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events    int
	Processed int
	Failed    int
	Errors    int
	LastPath  string
	LastEvent time.Time
}

// Watcher runs a Runner job for every image created or rewritten in a
// directory. Images are processed one at a time on the watcher goroutine.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	runner      *Runner
	dir         string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	onItem      func(ItemReport)
	logger      *zap.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stopped     bool

	stats WatcherStats
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle window. Non-positive values keep the default.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// OnItem registers a callback invoked after each processed image.
func OnItem(fn func(ItemReport)) WatcherOption {
	return func(w *Watcher) { w.onItem = fn }
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a Watcher for dir. Call Start to begin watching.
func NewWatcher(dir string, runner *Runner, opts ...WatcherOption) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:     fw,
		runner:      runner,
		dir:         dir,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
		logger:      zap.NewNop(),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounceDur))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. An image
// being processed finishes first. Further calls are no-ops.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if !w.running {
		w.mu.Unlock()
		w.closeWatcher()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.closeWatcher()
	w.logger.Info("watcher stopped")
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) closeWatcher() {
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("error closing file watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 5
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	if tick < 5*time.Millisecond {
		tick = 5 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !perception.IsSupportedImage(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	w.logger.Debug("image event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastPath = event.Name
	w.stats.LastEvent = time.Now()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()
	sort.Strings(settled)

	for _, path := range settled {
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(path); err != nil {
			w.logger.Debug("image gone before processing", zap.String("path", path))
			continue
		}
		item := w.runner.Process(ctx, path)

		w.mu.Lock()
		w.stats.Processed++
		if !item.OK() {
			w.stats.Failed++
		}
		w.mu.Unlock()

		if w.onItem != nil {
			w.onItem(item)
		}
	}
}
