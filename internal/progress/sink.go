package progress

import "go.uber.org/zap"

// Emitter receives pipeline events. Implementations must tolerate concurrent
// Emit calls from a single job plus reads from elsewhere.
type Emitter interface {
	Emit(evt Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(evt Event)

// Emit calls f.
func (f EmitterFunc) Emit(evt Event) { f(evt) }

// Multi fans one event out to several emitters in order. Nil entries are
// skipped so optional sinks can be wired unconditionally.
type Multi []Emitter

// Emit forwards evt to every non-nil emitter.
func (m Multi) Emit(evt Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(evt)
		}
	}
}

// LogSink mirrors the event stream onto a structured logger, which is how the
// CLI surfaces progress to the terminal.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the Emitter interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Emit logs one event with structured fields.
func (s *LogSink) Emit(evt Event) {
	switch evt.Type {
	case TypeStage:
		if evt.Stage == StageError {
			s.logger.Error("stage", zap.String("stage", string(evt.Stage)), zap.String("message", evt.Message))
			return
		}
		s.logger.Info("stage", zap.String("stage", string(evt.Stage)))
	case TypeDownload:
		s.logger.Debug("download",
			zap.String("source", evt.Source),
			zap.String("target", evt.Target),
			zap.String("status", string(evt.Status)),
		)
	case TypeLog:
		s.logger.Debug(evt.Message)
	}
}
