package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnrichmentRun records one invocation of the enrichment pipeline.
type EnrichmentRun struct {
	ID            uuid.UUID  `json:"id"`
	UserID        string     `json:"user_id"`
	CVID          string     `json:"cv_id,omitempty"`
	Status        string     `json:"status"`
	QualityBefore int        `json:"quality_before"`
	QualityAfter  int        `json:"quality_after"`
	Result        any        `json:"result,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CreateEnrichmentRun inserts a new run record and returns its ID.
func (db *DB) CreateEnrichmentRun(ctx context.Context, userID, cvID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enrichment_runs (user_id, cv_id, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		userID, cvID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create enrichment run: %w", err)
	}
	return id, nil
}

// CompleteEnrichmentRun stores the final result payload and quality scores.
func (db *DB) CompleteEnrichmentRun(ctx context.Context, runID uuid.UUID, status string, before, after int, result any) error {
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE enrichment_runs
		 SET status = $1, quality_before = $2, quality_after = $3, result = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, before, after, jsonBytes, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete enrichment run: %w", err)
	}
	return nil
}

// GetEnrichmentRun retrieves a run by ID. Returns nil when not found.
func (db *DB) GetEnrichmentRun(ctx context.Context, runID uuid.UUID) (*EnrichmentRun, error) {
	var run EnrichmentRun
	var resultBytes []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(cv_id, ''), status, quality_before, quality_after, result, created_at, completed_at
		 FROM enrichment_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.UserID, &run.CVID, &run.Status, &run.QualityBefore, &run.QualityAfter, &resultBytes, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrichment run: %w", err)
	}
	if len(resultBytes) > 0 {
		var result any
		if err := json.Unmarshal(resultBytes, &result); err == nil {
			run.Result = result
		}
	}
	return &run, nil
}

// ListEnrichmentRuns retrieves recent runs for a user.
func (db *DB) ListEnrichmentRuns(ctx context.Context, userID string, limit int) ([]EnrichmentRun, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, COALESCE(cv_id, ''), status, quality_before, quality_after, created_at, completed_at
		 FROM enrichment_runs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrichment runs: %w", err)
	}
	defer rows.Close()

	var runs []EnrichmentRun
	for rows.Next() {
		var run EnrichmentRun
		if err := rows.Scan(&run.ID, &run.UserID, &run.CVID, &run.Status, &run.QualityBefore, &run.QualityAfter, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrichment run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
