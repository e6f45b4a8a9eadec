package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/config"
	"github.com/vk/nne/internal/ctxlog"
	"github.com/vk/nne/internal/delegate"
	"github.com/vk/nne/internal/nsapi"
	"github.com/vk/nne/internal/report"
	"github.com/vk/nne/internal/roster"
)

// Run executes one NNE run. It returns nil when the report was published,
// when every member already endorses the delegate, and when the region has
// no delegate. Failures are logged before being returned.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.run(ctx); err != nil {
		a.logger.Error("NNE run failed.", "kind", apperr.Kind(err), "error", err)
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	raw, err := config.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.applyLogLevel(raw.LogLevel)

	client, err := a.newClient(raw)
	if err != nil {
		return err
	}

	var resolved string
	if raw.NeedsDelegate() {
		logger.Info("Delegate not set, checking.", "region", raw.Region)
		resolved, err = delegate.NewResolver(client).Resolve(ctx, raw.Region)
		if errors.Is(err, delegate.ErrNoDelegate) {
			logger.Warn("Region has no delegate, nothing to report.", "region", raw.Region)
			return nil
		}
		if err != nil {
			return err
		}
	}

	cfg, err := config.Resolve(raw, resolved)
	if err != nil {
		return err
	}

	logger.Info("Pulling nations not endorsing delegate.", "delegate", cfg.Delegate)
	nations, err := roster.NewDifferencer(client).NonEndorsing(ctx, cfg.Region, cfg.Delegate)
	if err != nil {
		return err
	}
	logger.Debug("Nations not endorsing.", "count", len(nations))

	if len(nations) == 0 {
		logger.Info("All nations endorsing, terminating.")
		return nil
	}

	publisher := report.NewPublisher(client, report.WithClock(a.now))
	req := report.Request{
		Credentials:      nsapi.Credentials{Nation: cfg.Nation, Password: cfg.Password},
		Nations:          nations,
		Test:             cfg.Test,
		TitleTemplate:    cfg.Title,
		BodyTemplatePath: cfg.TemplatePath,
		Delegate:         cfg.Delegate,
		Region:           cfg.Region,
	}

	if a.config.DryRun {
		form, err := publisher.Render(ctx, req)
		if err != nil {
			return fmt.Errorf("render dispatch: %w", err)
		}
		logger.Info("Dry run, not publishing.", "title", form.Title, "text", form.Text, "nations", len(nations))
		return nil
	}

	return publisher.Publish(ctx, req)
}

// applyLogLevel switches to the file's log level unless the command line
// already chose one.
func (a *App) applyLogLevel(fileLevel string) {
	if a.config.LogLevel != "" {
		return
	}
	level, ok := config.NormalizeLogLevel(fileLevel)
	a.level.Set(slogLevel(level))
	if !ok && fileLevel != "" {
		a.logger.Warn("Unrecognized log_level, using info.", "log_level", fileLevel)
	}
}

// newClient builds the API client for the configured user agent and timeout.
func (a *App) newClient(raw *config.Raw) (*nsapi.Client, error) {
	hc := a.httpClient
	if hc == nil {
		timeout, err := raw.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		if a.config.Timeout > 0 {
			timeout = a.config.Timeout
		}
		hc = nsapi.NewHTTPClient(timeout)
	}
	return nsapi.NewClient(raw.User, nsapi.WithBaseURL(raw.APIURL), nsapi.WithHTTPClient(hc)), nil
}
