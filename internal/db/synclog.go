package db

import (
	"context"
	"encoding/json"
	"fmt"
)

// InsertSyncLog appends one audit record. The table is append-only; the
// engine never updates or deletes entries.
func (db *DB) InsertSyncLog(ctx context.Context, entry *SyncLogEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal sync log metadata: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO sync_logs (
			event_type, resource_type, resource_slug, commit_sha, status,
			error, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.EventType, entry.ResourceType, entry.ResourceSlug,
		entry.CommitSHA, entry.Status, entry.Error, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync log: %w", err)
	}

	return nil
}

// RecentSyncLogs returns the newest audit entries, most recent first.
func (db *DB) RecentSyncLogs(ctx context.Context, limit int) ([]SyncLogEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, event_type, resource_type, resource_slug, commit_sha,
			status, error, metadata, created_at
		FROM sync_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SyncLogEntry
	for rows.Next() {
		var e SyncLogEntry
		var metadataJSON []byte

		if err := rows.Scan(
			&e.ID, &e.EventType, &e.ResourceType, &e.ResourceSlug,
			&e.CommitSHA, &e.Status, &e.Error, &metadataJSON, &e.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sync log metadata: %w", err)
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
