// Package config loads process configuration from the environment and
// module settings from an ini file.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
)

// Config is the process configuration. Every field can be set through a
// PALETTE_* environment variable; cobra flags override them.
type Config struct {
	GRPCPort     int           `env:"PALETTE_GRPC_PORT" envDefault:"50051"`
	WorldPath    string        `env:"PALETTE_WORLD_PATH"`
	ScriptPath   string        `env:"PALETTE_HOST_SCRIPT"`
	SettingsPath string        `env:"PALETTE_SETTINGS_PATH"`
	RedisAddr    string        `env:"PALETTE_REDIS_ADDR" envDefault:"localhost:6379"`
	JournalTTL   time.Duration `env:"PALETTE_JOURNAL_TTL" envDefault:"24h"`
	ProbeTimeout time.Duration `env:"PALETTE_PROBE_TIMEOUT" envDefault:"2s"`
	OTLPEndpoint string        `env:"PALETTE_OTLP_ENDPOINT"`
	LogLevel     string        `env:"PALETTE_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateRequired("WorldPath", c.WorldPath, vb)
	errors.ValidateRequired("RedisAddr", c.RedisAddr, vb)
	if c.JournalTTL < 0 {
		vb.Field("JournalTTL", "must not be negative")
	}
	if c.ProbeTimeout < 0 {
		vb.Field("ProbeTimeout", "must not be negative")
	}
	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)

	return vb.Build()
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, info when unknown
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return level
	}
	return slog.LevelInfo
}
