package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CacheEntryRow is one document in the external_data_cache table.
type CacheEntryRow struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Source    string    `json:"source"`
	Hits      int       `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetCacheEntry retrieves a cache document by key and increments its hit
// counter. Returns nil (no error) when the key is absent.
func (db *DB) GetCacheEntry(ctx context.Context, key string) (*CacheEntryRow, error) {
	var row CacheEntryRow
	err := db.pool.QueryRow(ctx,
		`UPDATE external_data_cache SET hits = hits + 1
		 WHERE key = $1
		 RETURNING key, data, source, hits, created_at, expires_at`,
		key,
	).Scan(&row.Key, &row.Data, &row.Source, &row.Hits, &row.CreatedAt, &row.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return &row, nil
}

// UpsertCacheEntry writes a cache document, replacing any existing entry for
// the same key.
func (db *DB) UpsertCacheEntry(ctx context.Context, row *CacheEntryRow) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO external_data_cache (key, data, source, hits, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (key) DO UPDATE SET data = $2, source = $3, hits = $4, created_at = $5, expires_at = $6`,
		row.Key, row.Data, row.Source, row.Hits, row.CreatedAt, row.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a single cache document.
func (db *DB) DeleteCacheEntry(ctx context.Context, key string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM external_data_cache WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntriesByPrefix removes all cache documents whose key starts
// with the given prefix. Returns the number of rows deleted.
func (db *DB) DeleteCacheEntriesByPrefix(ctx context.Context, prefix string) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM external_data_cache WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries by prefix: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredCacheEntries removes all documents whose expires_at is in the
// past. Used by the hourly sweep. Returns the number of rows deleted.
func (db *DB) DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM external_data_cache WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
