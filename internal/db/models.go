package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/markhook/markhook/internal/render"
)

// Post is a published or draft article row.
type Post struct {
	ID              uuid.UUID         `db:"id"`
	Slug            string            `db:"slug"`
	Title           string            `db:"title"`
	Excerpt         *string           `db:"excerpt"`
	Body            string            `db:"body"`
	HTML            string            `db:"html"`
	AuthorID        *uuid.UUID        `db:"author_id"`
	Status          string            `db:"status"`
	FeaturedImage   *string           `db:"featured_image"`
	ReadingTime     int               `db:"reading_time"`
	Views           int               `db:"views"`
	MetaDescription *string           `db:"meta_description"`
	MetaKeywords    []string          `db:"meta_keywords"`
	TOC             []render.TOCEntry `db:"toc"`
	PublishedAt     *time.Time        `db:"published_at"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`
}

// Author is a content author row. May start as a placeholder created when
// a post references a slug with no author file yet.
type Author struct {
	ID        uuid.UUID         `db:"id"`
	Slug      string            `db:"slug"`
	Name      string            `db:"name"`
	Email     *string           `db:"email"`
	Bio       *string           `db:"bio"`
	Avatar    *string           `db:"avatar"`
	Social    map[string]string `db:"social"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// Tag is a post tag row.
type Tag struct {
	ID          uuid.UUID `db:"id"`
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Page is a standalone document row.
type Page struct {
	ID              uuid.UUID  `db:"id"`
	Slug            string     `db:"slug"`
	Title           string     `db:"title"`
	Body            string     `db:"body"`
	HTML            string     `db:"html"`
	Status          string     `db:"status"`
	Template        *string    `db:"template"`
	MetaDescription *string    `db:"meta_description"`
	PublishedAt     *time.Time `db:"published_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// SyncLogEntry is an immutable audit record of one resource operation.
type SyncLogEntry struct {
	ID           uuid.UUID      `db:"id"`
	EventType    string         `db:"event_type"`    // sync|create|update|delete
	ResourceType string         `db:"resource_type"` // post|author|page|tag
	ResourceSlug string         `db:"resource_slug"`
	CommitSHA    string         `db:"commit_sha"`
	Status       string         `db:"status"` // success|error|skipped
	Error        *string        `db:"error"`
	Metadata     map[string]any `db:"metadata"`
	CreatedAt    time.Time      `db:"created_at"`
}

// SyncStatus summarizes the synced content store.
type SyncStatus struct {
	Connected    bool
	TotalPosts   int
	TotalAuthors int
	TotalPages   int
	TotalTags    int
	LastSyncTime *time.Time
}
