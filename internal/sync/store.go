package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/markhook/markhook/internal/db"
)

// Store is the subset of database operations the engine performs. The
// engine receives an explicit Store rather than a shared client so tests
// can substitute a fake.
type Store interface {
	UpsertPostWithTags(ctx context.Context, post *db.Post, tagIDs []uuid.UUID) (uuid.UUID, error)
	UpsertAuthor(ctx context.Context, author *db.Author) (uuid.UUID, error)
	UpsertPage(ctx context.Context, page *db.Page) (uuid.UUID, error)

	FindOrCreateAuthor(ctx context.Context, slug string) (uuid.UUID, error)
	FindOrCreateTag(ctx context.Context, slug string) (uuid.UUID, error)

	DeletePostBySlug(ctx context.Context, slug string) (int64, error)
	DeleteAuthorBySlug(ctx context.Context, slug string) (int64, error)
	DeletePageBySlug(ctx context.Context, slug string) (int64, error)

	InsertSyncLog(ctx context.Context, entry *db.SyncLogEntry) error
}
