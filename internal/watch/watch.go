// Package watch reruns a build whenever one of its inputs changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback when watched files or directories change.
type Watcher struct {
	Files    []string      // Individual input files
	Dirs     []string      // Directories whose direct children are inputs
	Debounce time.Duration // Quiet period before triggering (default DefaultDebounce)
	Logger   *slog.Logger  // Optional logger
}

// Run calls fn once, then again after every settled burst of changes or
// value received on trigger, until ctx is cancelled. fn errors are logged
// and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, trigger <-chan struct{}, fn func(context.Context) error) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	files := make(map[string]bool, len(w.Files))
	dirs := make(map[string]bool, len(w.Dirs))
	watched := make(map[string]bool)
	for _, f := range w.Files {
		f = filepath.Clean(f)
		files[f] = true
		// Editors replace files on save, so watch the parent directory.
		watched[filepath.Dir(f)] = true
	}
	for _, d := range w.Dirs {
		d = filepath.Clean(d)
		dirs[d] = true
		watched[d] = true
	}
	for d := range watched {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	relevant := func(ev fsnotify.Event) bool {
		if ev.Op == fsnotify.Chmod {
			return false
		}
		name := filepath.Clean(ev.Name)
		return files[name] || dirs[filepath.Dir(name)]
	}

	run := func() {
		start := time.Now()
		if err := fn(ctx); err != nil {
			if ctx.Err() == nil {
				logger.Error("rebuild failed", "error", err)
			}
			return
		}
		logger.Info("rebuild finished", "duration", time.Since(start).Round(time.Millisecond))
	}

	run()
	logger.Info("watching for changes", "files", len(files), "dirs", len(dirs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-fire:
			fire = nil
			run()

		case <-trigger:
			run()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("input changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}
