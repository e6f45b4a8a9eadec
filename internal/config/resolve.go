package config

import (
	"errors"

	"github.com/vk/nne/internal/apperr"
)

// Resolve produces the run configuration from raw. delegate is used only when
// raw does not name one; the result always has a delegate.
func Resolve(raw *Raw, delegate string) (*Resolved, error) {
	if raw.Delegate != "" {
		delegate = raw.Delegate
	}
	if delegate == "" {
		return nil, &apperr.ConfigError{Field: "delegate", Err: errors.New("not configured and not resolved")}
	}

	timeout, err := raw.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	level, _ := NormalizeLogLevel(raw.LogLevel)

	return &Resolved{
		User:         raw.User,
		Nation:       raw.Nation,
		Password:     raw.Password,
		Region:       raw.Region,
		Delegate:     delegate,
		Test:         raw.Test != nil && *raw.Test,
		Title:        raw.Title,
		TemplatePath: raw.TemplatePath,
		LogLevel:     level,
		APIURL:       raw.APIURL,
		Timeout:      timeout,
	}, nil
}
