// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	// Cores are built wide open; ForJob filters decide per-job verbosity.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}

// ForJob derives a job-scoped logger from base. Verbosity is decided per job
// so concurrent jobs never share level state: debug lowers the floor to
// DebugLevel, silent raises it to ErrorLevel, otherwise InfoLevel.
func ForJob(base *zap.Logger, jobID string, debug, silent bool) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	level := zapcore.InfoLevel
	switch {
	case silent:
		level = zapcore.ErrorLevel
	case debug:
		level = zapcore.DebugLevel
	}
	scoped := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelFilterCore{Core: core, min: level}
	}))
	if jobID != "" {
		scoped = scoped.With(zap.String("job_id", jobID))
	}
	return scoped
}

// levelFilterCore drops entries below min regardless of the wrapped core's own
// threshold. It only filters; it never lowers the underlying level.
type levelFilterCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), min: c.min}
}
