package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/markhook/markhook/internal/webhook"
)

// Watcher monitors a local clone of the content repository and emits
// debounced events for content files under the content root. Paths that
// do not classify as content (wrong directory, wrong extension) never
// reach the output channel.
type Watcher struct {
	rootPath       string
	contentRoot    string
	watcher        *fsnotify.Watcher
	debouncer      *Debouncer
	ignorePatterns []string
	stopCh         chan struct{}
}

// NewWatcher creates a watcher over a clone rooted at rootPath.
func NewWatcher(rootPath, contentRoot string, debounceMs int, ignorePatterns []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		rootPath:       rootPath,
		contentRoot:    contentRoot,
		watcher:        fsWatcher,
		debouncer:      NewDebouncer(debounceMs),
		ignorePatterns: ignorePatterns,
		stopCh:         make(chan struct{}),
	}, nil
}

// Start begins watching the root directory and all subdirectories.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.rootPath); err != nil {
		return err
	}

	go w.processEvents(ctx)

	slog.Info("watcher started",
		"path", w.rootPath,
		"content_root", w.contentRoot)

	return nil
}

// Events returns the channel of debounced content events.
func (w *Watcher) Events() <-chan Event {
	return w.debouncer.Events()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.debouncer.Stop()
	return w.watcher.Close()
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("error walking path", "path", path, "error", err)
			return nil // Continue walking
		}

		relPath, _ := filepath.Rel(w.rootPath, path)
		relPath = filepath.ToSlash(relPath)

		if w.shouldIgnore(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				slog.Warn("failed to watch directory", "path", path, "error", err)
			}
		}

		return nil
	})
}

// processEvents handles fsnotify events.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			relPath, err := filepath.Rel(w.rootPath, event.Name)
			if err != nil {
				continue
			}
			relPath = filepath.ToSlash(relPath)

			if w.shouldIgnore(relPath) {
				continue
			}

			w.handleEvent(event, relPath)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event, relPath string) {
	// Get file info for directory detection
	info, statErr := os.Stat(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		// New directories get added to the watch set
		if statErr == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				slog.Warn("failed to add new directory", "path", event.Name, "error", err)
			}
			return
		}
		w.add(relPath, EventUpsert)

	case event.Has(fsnotify.Write):
		if statErr == nil && info.IsDir() {
			return
		}
		w.add(relPath, EventUpsert)

	case event.Has(fsnotify.Remove):
		w.add(relPath, EventDelete)

	case event.Has(fsnotify.Rename):
		// Rename is treated as delete (the new name will trigger a create)
		w.add(relPath, EventDelete)

	case event.Has(fsnotify.Chmod):
		// Ignore chmod events
	}
}

// add classifies a path and queues it for debouncing. Paths outside the
// content root are dropped here.
func (w *Watcher) add(relPath string, eventType EventType) {
	change, ok := webhook.Classify(relPath, w.contentRoot)
	if !ok {
		return
	}
	w.debouncer.Add(change, eventType)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (w *Watcher) shouldIgnore(relPath string) bool {
	for _, pattern := range w.ignorePatterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}

		// Also check if any parent directory matches
		parts := strings.Split(relPath, "/")
		for i := 1; i <= len(parts); i++ {
			partial := strings.Join(parts[:i], "/")
			if matched, _ := doublestar.Match(pattern, partial); matched {
				return true
			}
		}
	}
	return false
}

// Flush flushes all pending debounced events.
func (w *Watcher) Flush() {
	w.debouncer.Flush()
}
