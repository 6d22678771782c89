package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/progress"
)

type fakeRepo struct {
	started   []string
	completed []RunStatus
	events    []progress.Event
	fail      bool
}

func (f *fakeRepo) StartRun(_ context.Context, jobID string, _ time.Time) error {
	if f.fail {
		return errors.New("db down")
	}
	f.started = append(f.started, jobID)
	return nil
}

func (f *fakeRepo) CompleteRun(_ context.Context, _ string, _ time.Time, status RunStatus, _ *string) error {
	if f.fail {
		return errors.New("db down")
	}
	f.completed = append(f.completed, status)
	return nil
}

func (f *fakeRepo) RecordEvent(_ context.Context, _ string, evt progress.Event) error {
	if f.fail {
		return errors.New("db down")
	}
	f.events = append(f.events, evt)
	return nil
}

func TestSinkPersistsTransitionsAndEvents(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	sink := NewSink(repo, zap.NewNop(), "job-1")
	now := time.Now()

	sink.Emit(progress.StageEvent(progress.StageStart, now))
	sink.Emit(progress.LogEvent("scanning", now))
	sink.Emit(progress.StageMessageEvent(progress.StageError, "boom", now))

	require.Equal(t, []string{"job-1"}, repo.started)
	require.Equal(t, []RunStatus{RunError}, repo.completed)
	require.Len(t, repo.events, 3)
}

func TestSinkSwallowsRepositoryFailures(t *testing.T) {
	t.Parallel()

	sink := NewSink(&fakeRepo{fail: true}, zap.NewNop(), "job-1")
	require.NotPanics(t, func() {
		sink.Emit(progress.StageEvent(progress.StageComplete, time.Now()))
	})
}
