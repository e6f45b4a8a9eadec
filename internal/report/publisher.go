// Package report renders the NNE dispatch and publishes it through the
// API's prepare/execute handshake.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
	"github.com/vk/nne/internal/nsapi"
	"github.com/vk/nne/internal/placeholder"
)

// Dispatcher performs the two phases of the add-dispatch command.
type Dispatcher interface {
	PrepareDispatch(ctx context.Context, creds nsapi.Credentials, form nsapi.DispatchForm) (nsapi.Confirmation, error)
	ExecuteDispatch(ctx context.Context, creds nsapi.Credentials, form nsapi.DispatchForm, conf nsapi.Confirmation) error
}

// Request is everything one publish needs.
type Request struct {
	Credentials      nsapi.Credentials
	Nations          []string
	Test             bool
	TitleTemplate    string
	BodyTemplatePath string
	Delegate         string
	Region           string
}

// Publisher renders and publishes NNE dispatches.
type Publisher struct {
	api      Dispatcher
	now      func() time.Time
	readFile func(string) ([]byte, error)
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock sets the source of the date placeholder.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// NewPublisher creates a Publisher that writes through api.
func NewPublisher(api Dispatcher, opts ...Option) *Publisher {
	p := &Publisher{
		api:      api,
		now:      time.Now,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render builds the dispatch form for req without contacting the API.
func (p *Publisher) Render(ctx context.Context, req Request) (nsapi.DispatchForm, error) {
	logger := ctxlog.FromContext(ctx)

	raw, err := p.readFile(req.BodyTemplatePath)
	if err != nil {
		return nsapi.DispatchForm{}, &apperr.ConfigError{Field: "template_path", Err: err}
	}
	bodyTmpl, err := placeholder.Parse(req.BodyTemplatePath, string(raw))
	if err != nil {
		return nsapi.DispatchForm{}, err
	}
	if req.Test {
		logger.Info("Test mode enabled, breaking nation tags.")
	}
	body, err := RenderBody(bodyTmpl, req.Nations, req.Test)
	if err != nil {
		return nsapi.DispatchForm{}, err
	}

	titleTmpl, err := placeholder.Parse("title", req.TitleTemplate)
	if err != nil {
		return nsapi.DispatchForm{}, err
	}
	title, err := RenderTitle(titleTmpl, req.Delegate, req.Region, p.now())
	if err != nil {
		return nsapi.DispatchForm{}, err
	}

	return nsapi.DispatchForm{
		Title:       title,
		Text:        body,
		Category:    nsapi.CategoryMeta,
		Subcategory: nsapi.SubcategoryReference,
	}, nil
}

// Publish renders req and runs the prepare/execute handshake. Nothing is sent
// when rendering fails, and execute is never attempted when prepare fails.
func (p *Publisher) Publish(ctx context.Context, req Request) error {
	logger := ctxlog.FromContext(ctx)

	form, err := p.Render(ctx, req)
	if err != nil {
		return fmt.Errorf("render dispatch: %w", err)
	}
	logger.Info("Publishing NNE dispatch.", "title", form.Title, "nations", len(req.Nations))

	logger.Debug("Preparing.")
	conf, err := p.api.PrepareDispatch(ctx, req.Credentials, form)
	if err != nil {
		return fmt.Errorf("prepare dispatch: %w", err)
	}

	logger.Debug("Executing.")
	if err := p.api.ExecuteDispatch(ctx, req.Credentials, form, conf); err != nil {
		return fmt.Errorf("execute dispatch: %w", err)
	}

	logger.Info("NNE dispatch published.", "title", form.Title)
	return nil
}
