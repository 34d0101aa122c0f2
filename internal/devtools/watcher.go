package devtools

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultIgnore contains default patterns the watcher skips.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"tmp",
	".lumen",
	"*.tmp",
	"*.swp",
	"*~",
}

// WatcherConfig configures the asset file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore patterns to skip (base-name globs or directory names).
	Ignore []string

	// Debounce coalesces rapid writes to the same file.
	Debounce time.Duration
}

// Watcher monitors asset directories and reports changed files.
type Watcher struct {
	config   WatcherConfig
	logger   *slog.Logger
	onChange func(path string)

	mu      sync.Mutex
	running bool
	pending map[string]time.Time
}

// NewWatcher creates a watcher over the configured paths.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:  config,
		logger:  slog.Default().With("component", "watcher"),
		pending: make(map[string]time.Time),
	}
}

// OnChange sets the callback for changed files. The callback runs on the
// watcher goroutine.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until the context ends. It returns the context error on
// cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, root := range w.config.Paths {
		w.addRecursive(fsw, root)
	}

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(ev.Name) {
				continue
			}
			// New directories need their own watch.
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(fsw, ev.Name)
					continue
				}
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.mu.Lock()
				w.pending[ev.Name] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending reports files whose last event is older than the debounce
// window.
func (w *Watcher) flushPending() {
	w.mu.Lock()
	callback := w.onChange
	cutoff := time.Now().Add(-w.config.Debounce)
	var ready []string
	for path, last := range w.pending {
		if last.Before(cutoff) || last.Equal(cutoff) {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if callback == nil {
		return
	}
	for _, path := range ready {
		callback(path)
	}
}

// addRecursive watches root and every subdirectory under it.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) {
	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			w.logger.Warn("watch add failed", "path", p, "error", err)
		}
		return nil
	})
}

// shouldIgnore checks a path against the ignore patterns.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}
		for _, segment := range strings.Split(normalized, "/") {
			if segment == pattern {
				return true
			}
		}
	}
	return false
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
