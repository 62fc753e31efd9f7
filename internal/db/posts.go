package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UpsertPostWithTags writes a post row and replaces its tag associations
// in a single transaction, so a reader never observes the post with a
// half-updated tag set. The conflict target is the slug; created_at and
// the view counter survive re-syncs, which makes replaying a webhook
// delivery idempotent.
func (db *DB) UpsertPostWithTags(ctx context.Context, post *Post, tagIDs []uuid.UUID) (uuid.UUID, error) {
	tocJSON, err := json.Marshal(post.TOC)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal toc: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO posts (
			slug, title, excerpt, body, html, author_id, status,
			featured_image, reading_time, meta_description, meta_keywords,
			toc, published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			body = EXCLUDED.body,
			html = EXCLUDED.html,
			author_id = EXCLUDED.author_id,
			status = EXCLUDED.status,
			featured_image = EXCLUDED.featured_image,
			reading_time = EXCLUDED.reading_time,
			meta_description = EXCLUDED.meta_description,
			meta_keywords = EXCLUDED.meta_keywords,
			toc = EXCLUDED.toc,
			published_at = EXCLUDED.published_at,
			updated_at = NOW()
		RETURNING id
	`,
		post.Slug, post.Title, post.Excerpt, post.Body, post.HTML,
		post.AuthorID, post.Status, post.FeaturedImage, post.ReadingTime,
		post.MetaDescription, post.MetaKeywords, tocJSON, post.PublishedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert post: %w", err)
	}

	// Replace the whole tag set so the junction table always mirrors the
	// frontmatter exactly.
	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear post tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, tagID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert post tag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit post upsert: %w", err)
	}

	return id, nil
}

// DeletePostBySlug removes a post row. Deleting a slug that does not
// exist is not an error; the returned count is zero.
func (db *DB) DeletePostBySlug(ctx context.Context, slug string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM posts WHERE slug = $1", slug)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetPostTagSlugs returns the slugs of a post's current tags, ordered by
// tag slug. Used by status reporting and tests.
func (db *DB) GetPostTagSlugs(ctx context.Context, slug string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT t.slug
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		JOIN posts p ON p.id = pt.post_id
		WHERE p.slug = $1
		ORDER BY t.slug
	`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}

	return slugs, rows.Err()
}
