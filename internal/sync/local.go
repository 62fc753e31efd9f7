package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"

	"github.com/markhook/markhook/internal/webhook"
)

// LocalRef marks sync log entries produced from a working tree rather
// than a webhook commit.
const LocalRef = "local"

// FullSync walks a local clone of the content repository and syncs every
// content file through the regular pipeline. Used for initial imports and
// for re-syncing after downtime; idempotent upserts make it safe to run
// at any time.
func (e *Engine) FullSync(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	slog.Info("starting full sync", "dir", dir)

	var changes []webhook.Change
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		rel, _ := filepath.Rel(dir, path)
		rel = filepath.ToSlash(rel)

		if e.shouldIgnore(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if c, ok := webhook.Classify(rel, e.cfg.Content.Root); ok {
			changes = append(changes, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk clone: %w", err)
	}

	result := &Result{Errors: []string{}}

	bar := progressbar.NewOptions(len(changes),
		progressbar.OptionSetDescription("Syncing files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	for _, c := range changes {
		if err := e.SyncChange(ctx, c, LocalRef); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Processed++
		}
		bar.Add(1)
	}
	bar.Finish()

	result.Success = len(result.Errors) == 0
	result.DurationMs = time.Since(start).Milliseconds()

	slog.Info("full sync completed",
		"processed", result.Processed,
		"errors", len(result.Errors),
		"duration_s", time.Since(start).Seconds())

	return result, nil
}

// shouldIgnore checks a clone-relative path against the configured
// ignore patterns.
func (e *Engine) shouldIgnore(relPath string) bool {
	for _, pattern := range e.cfg.IgnorePatterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
