package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsLoggers(t *testing.T) {
	t.Parallel()

	dev, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, dev)

	prod, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, prod)
}

func TestForJobSilentDropsInfo(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	silent := ForJob(base, "job-1", false, true)
	silent.Info("hidden")
	silent.Warn("hidden too")
	silent.Error("kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

func TestForJobDebugKeepsDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	dbg := ForJob(base, "job-2", true, false)
	dbg.Debug("visible")
	require.Equal(t, 1, logs.Len())

	std := ForJob(base, "job-3", false, false)
	std.Debug("invisible")
	std.Info("visible")
	require.Equal(t, 2, logs.Len())
}

func TestForJobTagsJobID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ForJob(base, "job-42", false, false).Info("tagged")
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "job-42", fields["job_id"])
}
