package sync

import (
	"context"
	"log/slog"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/markhook/markhook/internal/config"
	"github.com/markhook/markhook/internal/db"
	"github.com/markhook/markhook/internal/fetch"
	"github.com/markhook/markhook/internal/parser"
	"github.com/markhook/markhook/internal/render"
	"github.com/markhook/markhook/internal/webhook"
)

// Engine runs the per-file sync pipeline: fetch, parse, render, resolve,
// upsert, log. Failures in one file never block the rest of a push.
type Engine struct {
	store    Store
	fetcher  fetch.Fetcher
	renderer *render.Renderer
	cfg      *config.Config
}

// NewEngine creates a sync engine with explicit collaborators.
func NewEngine(store Store, fetcher fetch.Fetcher, cfg *config.Config) *Engine {
	return &Engine{
		store:    store,
		fetcher:  fetcher,
		renderer: render.NewRenderer(),
		cfg:      cfg,
	}
}

// Result aggregates the outcome of one push delivery.
type Result struct {
	Success    bool     `json:"success"`
	Processed  int      `json:"processed"`
	Errors     []string `json:"errors"`
	DurationMs int64    `json:"duration"`
}

type resourceKey struct {
	rtype webhook.ResourceType
	slug  string
}

// ProcessPush syncs every content change of one push event. Upserts run
// on a bounded worker pool; changes to the same slug are serialized in
// payload order to avoid lost updates. Deletions run after upserts so a
// rename within one push cannot delete a still-desired resource.
func (e *Engine) ProcessPush(ctx context.Context, event *webhook.PushEvent) *Result {
	start := time.Now()
	result := &Result{Errors: []string{}}

	cs := webhook.ExtractChangeSet(event, e.cfg.Content.Root)
	sha := event.CommitSHA()

	if cs.Empty() {
		result.Success = true
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	// Group same-slug changes so each group applies in payload order.
	var order []resourceKey
	groups := make(map[resourceKey][]webhook.Change)
	for _, c := range cs.Upserts {
		k := resourceKey{c.Type, c.Slug}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	workers := e.cfg.Sync.Workers
	if workers <= 0 {
		workers = 8
	}
	if len(order) < workers {
		workers = len(order)
	}

	var mu gosync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, k := range order {
		changes := groups[k]
		g.Go(func() error {
			for _, c := range changes {
				err := e.SyncChange(ctx, c, sha)
				mu.Lock()
				if err != nil {
					result.Errors = append(result.Errors, err.Error())
				} else {
					result.Processed++
				}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	upserted := make(map[resourceKey]bool, len(order))
	for _, k := range order {
		upserted[k] = true
	}

	for _, c := range cs.Removals {
		if upserted[resourceKey{c.Type, c.Slug}] {
			// Rename within one push: the slug was just written, keep it.
			e.logOutcome(ctx, "delete", c, sha, "skipped", nil,
				map[string]any{"reason": "slug upserted in same push"})
			continue
		}
		if err := e.DeleteChange(ctx, c, sha); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Processed++
		}
	}

	result.Success = len(result.Errors) == 0
	result.DurationMs = time.Since(start).Milliseconds()

	slog.Info("push processed",
		"commit", sha,
		"processed", result.Processed,
		"errors", len(result.Errors),
		"duration_ms", result.DurationMs)

	return result
}

// SyncChange fetches and syncs a single content file. The outcome is
// recorded in the sync log either way; the returned error is the per-file
// failure for the caller's aggregate list.
func (e *Engine) SyncChange(ctx context.Context, change webhook.Change, sha string) error {
	content, err := e.fetcher.Fetch(ctx, change.Path, sha)
	if err != nil {
		serr := fetchError(change.Path, err)
		e.logOutcome(ctx, "sync", change, sha, "error", serr, nil)
		return serr
	}

	var metadata map[string]any
	var serr *SyncError
	switch change.Type {
	case webhook.ResourcePost:
		metadata, serr = e.syncPost(ctx, change, content)
	case webhook.ResourceAuthor:
		metadata, serr = e.syncAuthor(ctx, change, content)
	case webhook.ResourcePage:
		metadata, serr = e.syncPage(ctx, change, content)
	}

	if serr != nil {
		e.logOutcome(ctx, "sync", change, sha, "error", serr, metadata)
		return serr
	}

	e.logOutcome(ctx, "sync", change, sha, "success", nil, metadata)
	slog.Debug("file synced", "path", change.Path, "slug", change.Slug)
	return nil
}

// DeleteChange removes the row for a deleted content file. A slug with no
// matching row is logged as skipped, not treated as an error.
func (e *Engine) DeleteChange(ctx context.Context, change webhook.Change, sha string) error {
	var rows int64
	var err error

	switch change.Type {
	case webhook.ResourcePost:
		rows, err = e.store.DeletePostBySlug(ctx, change.Slug)
	case webhook.ResourceAuthor:
		rows, err = e.store.DeleteAuthorBySlug(ctx, change.Slug)
	case webhook.ResourcePage:
		rows, err = e.store.DeletePageBySlug(ctx, change.Slug)
	}

	if err != nil {
		serr := persistenceError(change.Path, err)
		e.logOutcome(ctx, "delete", change, sha, "error", serr, nil)
		return serr
	}

	status := "success"
	if rows == 0 {
		status = "skipped"
	}
	e.logOutcome(ctx, "delete", change, sha, status, nil, map[string]any{"rows": rows})
	slog.Debug("file removed", "path", change.Path, "slug", change.Slug, "rows", rows)
	return nil
}

func (e *Engine) syncPost(ctx context.Context, change webhook.Change, content string) (map[string]any, *SyncError) {
	meta, body, err := parser.ParsePost(content)
	if err != nil {
		return nil, validationError(change.Path, err)
	}

	html, err := e.renderer.Render(body)
	if err != nil {
		return nil, renderError(change.Path, err)
	}

	authorID, err := e.store.FindOrCreateAuthor(ctx, meta.Author)
	if err != nil {
		return nil, persistenceError(change.Path, err)
	}

	tags := normalizeTags(meta.Tags)
	tagIDs := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		id, err := e.store.FindOrCreateTag(ctx, tag)
		if err != nil {
			return nil, persistenceError(change.Path, err)
		}
		tagIDs = append(tagIDs, id)
	}

	excerpt := meta.Excerpt
	if excerpt == "" {
		excerpt = render.Excerpt(body, e.cfg.Sync.ExcerptMaxLength)
	}

	published := meta.PublishedTime()
	post := &db.Post{
		Slug:            change.Slug,
		Title:           meta.Title,
		Excerpt:         &excerpt,
		Body:            body,
		HTML:            html,
		AuthorID:        &authorID,
		Status:          meta.Status,
		FeaturedImage:   optional(meta.FeaturedImage),
		ReadingTime:     render.ReadingTime(body, e.cfg.Sync.ReadingSpeedWPM),
		MetaDescription: optional(meta.MetaDescription),
		MetaKeywords:    meta.MetaKeywords,
		TOC:             render.TableOfContents(body),
		PublishedAt:     &published,
	}

	metadata := map[string]any{"slug": change.Slug, "title": meta.Title, "tags": tags}

	if _, err := e.store.UpsertPostWithTags(ctx, post, tagIDs); err != nil {
		return metadata, persistenceError(change.Path, err)
	}

	return metadata, nil
}

func (e *Engine) syncAuthor(ctx context.Context, change webhook.Change, content string) (map[string]any, *SyncError) {
	meta, body, err := parser.ParseAuthor(content)
	if err != nil {
		return nil, validationError(change.Path, err)
	}

	// The file body doubles as the long-form bio when the frontmatter
	// does not carry one.
	bio := meta.Bio
	if bio == "" {
		bio = strings.TrimSpace(body)
	}

	author := &db.Author{
		Slug:   change.Slug,
		Name:   meta.Name,
		Email:  optional(meta.Email),
		Bio:    optional(bio),
		Avatar: optional(meta.Avatar),
		Social: meta.Social,
	}

	metadata := map[string]any{"slug": change.Slug, "name": meta.Name}

	if _, err := e.store.UpsertAuthor(ctx, author); err != nil {
		return metadata, persistenceError(change.Path, err)
	}

	return metadata, nil
}

func (e *Engine) syncPage(ctx context.Context, change webhook.Change, content string) (map[string]any, *SyncError) {
	meta, body, err := parser.ParsePage(content)
	if err != nil {
		return nil, validationError(change.Path, err)
	}

	html, err := e.renderer.Render(body)
	if err != nil {
		return nil, renderError(change.Path, err)
	}

	slug := change.Slug
	if meta.Slug != "" {
		slug = meta.Slug
	}

	page := &db.Page{
		Slug:            slug,
		Title:           meta.Title,
		Body:            body,
		HTML:            html,
		Status:          meta.Status,
		Template:        optional(meta.Template),
		MetaDescription: optional(meta.MetaDescription),
		PublishedAt:     meta.PublishedTime(),
	}

	metadata := map[string]any{"slug": slug, "title": meta.Title}

	if _, err := e.store.UpsertPage(ctx, page); err != nil {
		return metadata, persistenceError(change.Path, err)
	}

	return metadata, nil
}

// logOutcome appends one audit record. A failing audit write must never
// abort the pipeline; it is reported to the operational log only.
func (e *Engine) logOutcome(ctx context.Context, eventType string, change webhook.Change, sha, status string, syncErr *SyncError, metadata map[string]any) {
	entry := &db.SyncLogEntry{
		EventType:    eventType,
		ResourceType: string(change.Type),
		ResourceSlug: change.Slug,
		CommitSHA:    sha,
		Status:       status,
		Metadata:     metadata,
	}
	if syncErr != nil {
		msg := syncErr.Error()
		entry.Error = &msg
	}

	if err := e.store.InsertSyncLog(ctx, entry); err != nil {
		slog.Warn("failed to write sync log", "path", change.Path, "error", err)
	}
}

// normalizeTags lowercases, trims and deduplicates frontmatter tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !seen[tag] {
			seen[tag] = true
			normalized = append(normalized, tag)
		}
	}

	return normalized
}

// optional maps an empty string to a NULL column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
