package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FindOrCreateTag resolves a tag slug to a row id, inserting a minimal
// row (name = slug) when none exists. Same race-safe insert-then-read
// pattern as FindOrCreateAuthor.
func (db *DB) FindOrCreateTag(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO tags (slug, name) VALUES ($1, $1)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id
	`, slug).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("failed to create tag: %w", err)
	}

	err = db.Pool.QueryRow(ctx, "SELECT id FROM tags WHERE slug = $1", slug).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve tag %q: %w", slug, err)
	}
	return id, nil
}
