// Package watch feeds completion files to a handler as they appear or
// change under a directory tree.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/suykerbuyk/llmclean/internal/discover"
)

// Handler is called once per settled completion file.
type Handler func(ctx context.Context, path string)

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Handled   int
	Errors    int
	LastPath  string
	LastEvent time.Time
}

// Watcher watches a directory tree for completion files. Rapid writes to
// the same file are coalesced into one handler call once the file has been
// quiet for the debounce window.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	handle   Handler
	debounce time.Duration
	pending  map[string]time.Time
	log      *zap.Logger
	stats    Stats

	running  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Watcher for dir. A nil logger is replaced by a no-op one.
func New(dir string, debounce time.Duration, handle Handler, log *zap.Logger) (*Watcher, error) {
	if handle == nil {
		return nil, fmt.Errorf("watch: nil handler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		handle:   handle,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds dir and its subdirectories to the watch list and begins
// delivering events. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.dir); err != nil {
		w.watcher.Close()
		close(w.doneCh)
		return err
	}
	w.log.Info("watching directory", zap.String("path", w.dir))

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		w.watcher.Close()
		return
	}
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	ticker := time.NewTicker(tickInterval(w.debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watcher context cancelled")
			return

		case <-w.stopCh:
			w.log.Debug("watcher stopped")
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
			w.log.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("could not watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !discover.IsCompletion(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.pending[event.Name] = time.Now()
		w.stats.Events++
		w.stats.LastPath = event.Name
		w.stats.LastEvent = time.Now()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.pending, event.Name)
	}
}

// flush hands every file quiet since before now-debounce to the handler.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if _, err := os.Stat(path); err != nil {
			continue // gone before it settled
		}
		w.handle(ctx, path)
		w.mu.Lock()
		w.stats.Handled++
		w.mu.Unlock()
	}
}

func tickInterval(debounce time.Duration) time.Duration {
	d := debounce / 4
	if d < 5*time.Millisecond {
		d = 5 * time.Millisecond
	}
	if d > 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	return d
}
