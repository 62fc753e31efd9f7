package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertAuthor writes an author row from an explicitly synced author
// file. It overwrites every mutable field, including a placeholder row
// previously created by FindOrCreateAuthor.
func (db *DB) UpsertAuthor(ctx context.Context, author *Author) (uuid.UUID, error) {
	socialJSON, err := json.Marshal(author.Social)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal social links: %w", err)
	}

	var id uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO authors (slug, name, email, bio, avatar, social)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			avatar = EXCLUDED.avatar,
			social = EXCLUDED.social,
			updated_at = NOW()
		RETURNING id
	`,
		author.Slug, author.Name, author.Email, author.Bio, author.Avatar,
		socialJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert author: %w", err)
	}

	return id, nil
}

// FindOrCreateAuthor resolves an author slug to a row id, inserting a
// placeholder (name = slug) when none exists. The insert is a no-op on
// conflict followed by a read-back, so two concurrent syncs racing to
// create the same slug both succeed.
func (db *DB) FindOrCreateAuthor(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO authors (slug, name) VALUES ($1, $1)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id
	`, slug).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("failed to create author placeholder: %w", err)
	}

	err = db.Pool.QueryRow(ctx, "SELECT id FROM authors WHERE slug = $1", slug).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve author %q: %w", slug, err)
	}
	return id, nil
}

// DeleteAuthorBySlug removes an author row; posts referencing it keep
// their rows with author_id set to NULL by the foreign key.
func (db *DB) DeleteAuthorBySlug(ctx context.Context, slug string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM authors WHERE slug = $1", slug)
	if err != nil {
		return 0, fmt.Errorf("failed to delete author: %w", err)
	}
	return tag.RowsAffected(), nil
}
