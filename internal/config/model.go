package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/nne/internal/apperr"
)

// Raw is the configuration as read from its source, before the delegate is
// known.
type Raw struct {
	User         string `yaml:"user" hcl:"user,optional" env:"NNE_USER" validate:"required"`
	Nation       string `yaml:"nation" hcl:"nation,optional" env:"NNE_NATION" validate:"required"`
	Password     string `yaml:"password" hcl:"password,optional" env:"NNE_PASSWORD" validate:"required"`
	Region       string `yaml:"region" hcl:"region,optional" env:"NNE_REGION" validate:"required"`
	Delegate     string `yaml:"delegate" hcl:"delegate,optional" env:"NNE_DELEGATE"`
	Test         *bool  `yaml:"test" hcl:"test,optional" env:"NNE_TEST" validate:"required"`
	Title        string `yaml:"title" hcl:"title,optional" env:"NNE_TITLE" validate:"required"`
	TemplatePath string `yaml:"template_path" hcl:"template_path,optional" env:"NNE_TEMPLATE_PATH" validate:"required"`
	LogLevel     string `yaml:"log_level" hcl:"log_level,optional" env:"NNE_LOG_LEVEL"`
	APIURL       string `yaml:"api_url" hcl:"api_url,optional" env:"NNE_API_URL" validate:"omitempty,url"`
	Timeout      string `yaml:"timeout" hcl:"timeout,optional" env:"NNE_TIMEOUT"`
}

// LogValue keeps the password out of logs.
func (r Raw) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", r.User),
		slog.String("region", r.Region),
		slog.String("delegate", r.Delegate),
		slog.Bool("test", r.Test != nil && *r.Test),
	)
}

// NeedsDelegate reports whether the delegate must be looked up.
func (r Raw) NeedsDelegate() bool {
	return r.Delegate == ""
}

// TimeoutDuration parses the timeout field. An empty field is zero, meaning
// the client default.
func (r Raw) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, &apperr.ConfigError{Field: "timeout", Err: err}
	}
	if d <= 0 {
		return 0, &apperr.ConfigError{Field: "timeout", Err: errors.New("must be positive")}
	}
	return d, nil
}

// Resolved is the immutable configuration for one run.
type Resolved struct {
	User         string
	Nation       string
	Password     string
	Region       string
	Delegate     string
	Test         bool
	Title        string
	TemplatePath string
	LogLevel     string
	APIURL       string
	Timeout      time.Duration
}

// LogValue keeps the password out of logs.
func (r Resolved) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", r.User),
		slog.String("region", r.Region),
		slog.String("delegate", r.Delegate),
		slog.Bool("test", r.Test),
	)
}

// Log levels accepted by log_level, after normalization.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// NormalizeLogLevel maps a case-insensitive level name to one of the Level
// constants. ok is false, and the result LevelInfo, for anything else.
func NormalizeLogLevel(s string) (level string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}
