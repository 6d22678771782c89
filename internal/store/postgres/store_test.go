package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/store"
)

func TestStartRun(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock)
	startedAt := time.Unix(1700000000, 0).UTC()

	mock.ExpectExec("INSERT INTO export_runs").
		WithArgs("job-1", startedAt, store.RunRunning).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.StartRun(context.Background(), "job-1", startedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRun(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock)
	finishedAt := time.Unix(1700000100, 0).UTC()
	msg := "boom"

	mock.ExpectExec("UPDATE export_runs").
		WithArgs(finishedAt, store.RunError, &msg, "job-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteRun(context.Background(), "job-1", finishedAt, store.RunError, &msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRunUnknownJob(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock)
	finishedAt := time.Unix(1700000100, 0).UTC()

	mock.ExpectExec("UPDATE export_runs").
		WithArgs(finishedAt, store.RunSuccess, (*string)(nil), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = s.CompleteRun(context.Background(), "missing", finishedAt, store.RunSuccess, nil)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEvent(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock)
	at := time.Unix(1700000000, 0).UTC()
	evt := progress.StageEvent(progress.StageScanning, at)

	mock.ExpectExec("INSERT INTO export_events").
		WithArgs("job-1", at, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.RecordEvent(context.Background(), "job-1", evt))
	require.NoError(t, mock.ExpectationsWereMet())
}
