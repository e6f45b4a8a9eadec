package app

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger     *slog.Logger
	level      *slog.LevelVar
	config     *Config
	now        func() time.Time
	httpClient *http.Client
}

// Option configures an App.
type Option func(*App)

// WithClock sets the clock used for the report date.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithHTTPClient replaces the HTTP client built from the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// NewApp is the constructor for the main application. Logs go to outW through
// the App's own logger. Until the configuration file is read the level is
// the command-line level, or info.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	level := new(slog.LevelVar)
	level.Set(slogLevel(cfg.LogLevel))

	a := &App{
		logger: newLogger(level, cfg.LogFormat, outW),
		level:  level,
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
