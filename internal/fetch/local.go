package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local reads content files from a local clone of the content repository.
// Used by the one-shot sync and watch modes; the ref is ignored since the
// working tree is the source of truth.
type Local struct {
	root string
}

// NewLocal creates a fetcher rooted at a clone directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Fetch reads a repository-relative path from the clone.
func (l *Local) Fetch(ctx context.Context, path, _ string) (string, error) {
	absPath := filepath.Join(l.root, filepath.FromSlash(path))

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path %s is a directory", path)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}
