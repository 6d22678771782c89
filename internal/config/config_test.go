package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	require.Equal(t, "data/exports", cfg.Export.Root)
	require.True(t, cfg.Logging.Development)
	require.Empty(t, cfg.DB.DSN)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EXPORTER_SERVER_PORT", "9191")
	t.Setenv("EXPORTER_HTTP_TIMEOUT_SECONDS", "20")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, 20, cfg.HTTP.TimeoutSeconds)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Server: ServerConfig{Port: 8080},
		HTTP:   HTTPConfig{TimeoutSeconds: 10},
		Export: ExportConfig{Root: "out"},
	}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Server.Port = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.HTTP.TimeoutSeconds = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Export.Root = " "
	require.Error(t, bad.Validate())
}

func TestCORSOrigins(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "unset uses defaults", raw: "", want: DefaultCORSOrigins},
		{name: "wildcard", raw: "*", want: []string{"*"}},
		{
			name: "comma list",
			raw:  "https://app.example.com, http://localhost:5173",
			want: []string{"https://app.example.com", "http://localhost:5173"},
		},
		{name: "unparseable falls back", raw: "not an origin", want: DefaultCORSOrigins},
		{name: "partially invalid falls back", raw: "https://ok.example,???", want: DefaultCORSOrigins},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Config{Server: ServerConfig{CORSOrigins: tc.raw}}
			require.Equal(t, tc.want, cfg.CORSOrigins(logger))
		})
	}
}
