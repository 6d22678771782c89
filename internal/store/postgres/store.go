// Package postgres provides the Postgres-backed progress repository.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/store"
)

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store implements store.ProgressRepository on Postgres.
type Store struct {
	pool execCloser
}

// NewStore opens a connection pool for the given DSN.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool constructs a store from an existing pool (primarily for
// testing).
func NewStoreWithPool(pool execCloser) *Store {
	return &Store{pool: pool}
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// StartRun inserts the run row, idempotently.
func (s *Store) StartRun(ctx context.Context, jobID string, startedAt time.Time) error {
	query := `
		INSERT INTO export_runs (job_id, started_at, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO NOTHING;
	`
	if _, err := s.pool.Exec(ctx, query, jobID, startedAt, store.RunRunning); err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// CompleteRun marks the run finished.
func (s *Store) CompleteRun(ctx context.Context, jobID string, finishedAt time.Time, status store.RunStatus, errMsg *string) error {
	query := `
		UPDATE export_runs
		SET finished_at = $1, status = $2, error_message = $3
		WHERE job_id = $4;
	`
	tag, err := s.pool.Exec(ctx, query, finishedAt, status, errMsg, jobID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecordEvent appends one event row with the full event as a jsonb payload.
func (s *Store) RecordEvent(ctx context.Context, jobID string, evt progress.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	query := `
		INSERT INTO export_events (job_id, occurred_at, payload)
		VALUES ($1, $2, $3);
	`
	if _, err := s.pool.Exec(ctx, query, jobID, evt.Timestamp, payload); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}
