package app

import (
	"errors"
	"time"

	"github.com/vk/nne/internal/config"
)

// Config holds the process-level settings for an App, as given on the
// command line. Settings of the run itself live in the configuration file.
type Config struct {
	ConfigPath string

	// LogLevel overrides the file's log_level when set.
	LogLevel  string
	LogFormat string
	// Timeout overrides the file's timeout when positive.
	Timeout time.Duration
	// DryRun renders the report without publishing it.
	DryRun bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = config.DefaultPath
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	if cfg.LogLevel != "" {
		level, ok := config.NormalizeLogLevel(cfg.LogLevel)
		if !ok {
			return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warning' or 'error'")
		}
		cfg.LogLevel = level
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("invalid timeout: must not be negative")
	}
	return &cfg, nil
}
