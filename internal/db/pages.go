package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertPage writes a page row idempotently, keyed by slug.
func (db *DB) UpsertPage(ctx context.Context, page *Page) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO pages (
			slug, title, body, html, status, template, meta_description,
			published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			html = EXCLUDED.html,
			status = EXCLUDED.status,
			template = EXCLUDED.template,
			meta_description = EXCLUDED.meta_description,
			published_at = EXCLUDED.published_at,
			updated_at = NOW()
		RETURNING id
	`,
		page.Slug, page.Title, page.Body, page.HTML, page.Status,
		page.Template, page.MetaDescription, page.PublishedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert page: %w", err)
	}

	return id, nil
}

// DeletePageBySlug removes a page row; missing slugs affect zero rows.
func (db *DB) DeletePageBySlug(ctx context.Context, slug string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM pages WHERE slug = $1", slug)
	if err != nil {
		return 0, fmt.Errorf("failed to delete page: %w", err)
	}
	return tag.RowsAffected(), nil
}
