// Package store declares interfaces for persisting export run progress.
// Implementations live in subpackages; this package must not import database
// drivers or concrete clients.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/webflowx/exporter/internal/progress"
)

// ErrNotFound signals that the requested run does not exist.
var ErrNotFound = errors.New("export run not found")

// RunStatus mirrors the export_runs status column.
type RunStatus string

// Run statuses persisted in export_runs.status.
const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// ProgressRepository persists incremental export run progress.
type ProgressRepository interface {
	// StartRun records that a run began at startedAt. Idempotent per job.
	StartRun(ctx context.Context, jobID string, startedAt time.Time) error
	// CompleteRun marks the run finished with the given status and optional
	// error message.
	CompleteRun(ctx context.Context, jobID string, finishedAt time.Time, status RunStatus, errMsg *string) error
	// RecordEvent appends one progress event to the run's event log.
	RecordEvent(ctx context.Context, jobID string, evt progress.Event) error
}
