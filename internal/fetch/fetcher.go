// Package fetch retrieves raw content file bytes for the sync engine.
package fetch

import "context"

// Fetcher retrieves the content of a single file at an exact ref.
// Fetching at the push's commit rather than HEAD keeps concurrent pushes
// from racing each other into reading different content.
type Fetcher interface {
	Fetch(ctx context.Context, path, ref string) (string, error)
}
