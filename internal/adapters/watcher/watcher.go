package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"driftmap/internal/logging"
)

// DefaultDebounce is the quiet period that ends a batch of changes
const DefaultDebounce = 300 * time.Millisecond

// IgnoreFunc reports whether a slash-separated path relative to the root
// is excluded from watching
type IgnoreFunc func(rel string, isDir bool) bool

// ChangeHandler receives the distinct paths changed in one batch
type ChangeHandler func(ctx context.Context, paths []string)

// Watcher reports workspace changes in debounced batches.
//
// Directories are watched recursively; directories created while running
// are added as they appear.
type Watcher struct {
	root     string
	debounce time.Duration
	skip     map[string]bool
	ignore   IgnoreFunc
	logger   *slog.Logger
}

// Option configures the Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period; zero or negative keeps the default
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSkipDirs excludes directories by base name (e.g. ".git")
func WithSkipDirs(names ...string) Option {
	return func(w *Watcher) {
		for _, n := range names {
			w.skip[n] = true
		}
	}
}

// WithIgnore excludes paths matched by fn, e.g. the workspace ignore rules
func WithIgnore(fn IgnoreFunc) Option {
	return func(w *Watcher) {
		w.ignore = fn
	}
}

// WithLogger sets the watcher logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for root
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		skip:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrDiscard(w.logger)
	return w
}

// Run watches until ctx is done, calling onChange once per batch. The
// handler runs on the watch goroutine, so events arriving meanwhile join
// the next batch. Returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, onChange ChangeHandler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watching workspace", "root", w.root, "debounce", w.debounce)

	var (
		batch  []string
		seen   = make(map[string]bool)
		timer  *time.Timer
		timerC <-chan time.Time
	)

	flush := func() {
		if len(batch) > 0 {
			paths := batch
			batch = nil
			seen = make(map[string]bool)
			onChange(ctx, paths)
		}
		timer, timerC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.skipped(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(fw, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if !seen[event.Name] {
				seen[event.Name] = true
				batch = append(batch, event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// addRecursive adds a directory and all subdirectories to the watch list
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (w.skip[d.Name()] || w.ignored(path, true)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// skipped reports whether any path element below root is a skipped
// directory, or the path falls under the ignore rules
func (w *Watcher) skipped(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.skip[part] {
			return true
		}
	}
	isDir := false
	if info, err := os.Stat(path); err == nil {
		isDir = info.IsDir()
	}
	return w.ignored(path, isDir)
}

// ignored applies the ignore func to path and to each parent directory
// below root, so files under an ignored directory are ignored too
func (w *Watcher) ignored(path string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := 1; i < len(parts); i++ {
		if w.ignore(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return w.ignore(rel, isDir)
}
