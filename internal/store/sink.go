package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/progress"
)

// Sink mirrors one job's event stream into a ProgressRepository. Persistence
// failures are logged and swallowed; they never fail the job.
type Sink struct {
	repo   ProgressRepository
	logger *zap.Logger
	jobID  string
}

// NewSink binds a repository to one job's event stream.
func NewSink(repo ProgressRepository, logger *zap.Logger, jobID string) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{repo: repo, logger: logger, jobID: jobID}
}

// Emit persists the event, plus the run start/finish transitions carried by
// the terminal and start stage events.
func (s *Sink) Emit(evt progress.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if evt.Type == progress.TypeStage {
		switch evt.Stage {
		case progress.StageStart:
			if err := s.repo.StartRun(ctx, s.jobID, evt.Timestamp); err != nil {
				s.logger.Warn("failed to persist run start", zap.String("job_id", s.jobID), zap.Error(err))
			}
		case progress.StageComplete:
			if err := s.repo.CompleteRun(ctx, s.jobID, evt.Timestamp, RunSuccess, nil); err != nil {
				s.logger.Warn("failed to persist run completion", zap.String("job_id", s.jobID), zap.Error(err))
			}
		case progress.StageError:
			msg := evt.Message
			if err := s.repo.CompleteRun(ctx, s.jobID, evt.Timestamp, RunError, &msg); err != nil {
				s.logger.Warn("failed to persist run failure", zap.String("job_id", s.jobID), zap.Error(err))
			}
		}
	}

	if err := s.repo.RecordEvent(ctx, s.jobID, evt); err != nil {
		s.logger.Warn("failed to persist event", zap.String("job_id", s.jobID), zap.Error(err))
	}
}
