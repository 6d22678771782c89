// Package config loads and validates exporter configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/version"
)

// DefaultCORSOrigins is used when no origins are configured or the configured
// value cannot be parsed.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
	DB      DBConfig      `mapstructure:"db"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// CORSOrigins is the raw origin configuration, typically supplied through
	// the EXPORTER_SERVER_CORS_ORIGINS environment variable.
	CORSOrigins string `mapstructure:"cors_origins"`
}

// HTTPConfig configures outbound fetch behavior.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// ExportConfig sets where job output trees and archives are written.
type ExportConfig struct {
	Root string `mapstructure:"root"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// DBConfig controls the optional progress persistence layer. An empty DSN
// disables it.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.user_agent", "webflow-exporter/"+version.Resolve())
	v.SetDefault("export.root", "data/exports")
	v.SetDefault("logging.development", true)
	v.SetDefault("db.dsn", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Export.Root) == "" {
		return fmt.Errorf("export.root must be set")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// CORSOrigins resolves the configured origin list. Unset falls back to the
// localhost defaults, "*" allows every origin, and a comma-separated list is
// used as-is; a list with unparseable entries falls back to the defaults with
// a warning.
func (c Config) CORSOrigins(logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	raw := strings.TrimSpace(c.Server.CORSOrigins)
	if raw == "" {
		return DefaultCORSOrigins
	}
	if raw == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if !validOrigin(origin) {
			logger.Warn("unparseable CORS origin list, using defaults", zap.String("value", raw))
			return DefaultCORSOrigins
		}
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		logger.Warn("empty CORS origin list, using defaults", zap.String("value", raw))
		return DefaultCORSOrigins
	}
	return origins
}

func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == ""
}
