package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"themelab-hq/triton/pkg/telemetry/logging"
)

// Config contains configuration for the watcher.
type Config struct {
	// Root is the theme directory to watch.
	Root string

	// Debounce is the quiet period after the last event before the
	// callback fires (default: 300ms).
	Debounce time.Duration

	// Extensions limits which file changes trigger a run
	// (default: .liquid and .json).
	Extensions []string
}

// Watcher watches a theme tree and invokes a callback after changes
// settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	config   Config
	log      *logging.Logger
	debounce *debouncer

	mu      sync.Mutex
	running bool
}

// New creates a watcher for the configured root.
func New(cfg Config, log *logging.Logger) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch root cannot be empty")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".liquid", ".json"}
	}
	if log == nil {
		log = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		config:   cfg,
		log:      log,
		debounce: newDebouncer(cfg.Debounce),
	}, nil
}

// Watch blocks, invoking onChange after each settled burst of events,
// until the context is cancelled. onChange runs on the debounce timer
// goroutine; a slow run delays the next trigger, never drops it.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.addTree(w.config.Root); err != nil {
		return fmt.Errorf("failed to watch theme: %w", err)
	}

	w.log.Info("watching theme",
		"root", w.config.Root,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.debounce.stop()
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcess(event) {
				continue
			}
			// New directories need watches of their own.
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.addTree(event.Name)
				}
			}
			w.log.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.debounce.trigger(onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite transient errors.
			w.log.Error("watch error", "error", err)
		}
	}
}

// addTree registers the directory and every non-hidden subdirectory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Races with deletes are expected mid-walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == "" {
		// Probably a directory; let the debounce decide.
		return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	}
	for _, want := range w.config.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// debouncer coalesces a burst of triggers into one callback after a
// quiet interval.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
