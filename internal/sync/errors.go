package sync

import "fmt"

// ErrorKind classifies a per-file sync failure for the audit trail.
type ErrorKind string

const (
	KindFetch       ErrorKind = "fetch"
	KindValidation  ErrorKind = "validation"
	KindRender      ErrorKind = "render"
	KindPersistence ErrorKind = "persistence"
)

// SyncError is a per-file failure caught at the orchestrator boundary.
// It never aborts the batch; the orchestrator records it and moves on.
type SyncError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Path, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func fetchError(path string, err error) *SyncError {
	return &SyncError{Kind: KindFetch, Path: path, Err: err}
}

func validationError(path string, err error) *SyncError {
	return &SyncError{Kind: KindValidation, Path: path, Err: err}
}

func renderError(path string, err error) *SyncError {
	return &SyncError{Kind: KindRender, Path: path, Err: err}
}

func persistenceError(path string, err error) *SyncError {
	return &SyncError{Kind: KindPersistence, Path: path, Err: err}
}
