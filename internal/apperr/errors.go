// Package apperr defines the error kinds surfaced by the NNE pipeline. Every
// kind wraps its cause, so errors.Is and errors.As see through it.
package apperr

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing or malformed configuration field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError reports a network-level failure, including non-success
// HTTP statuses.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports an API response without the expected field.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s: field missing from response", e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TemplateError reports a placeholder mismatch or an unusable template.
type TemplateError struct {
	Template string
	Key      string
	Err      error
}

func (e *TemplateError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("template %s: placeholder %q: %v", e.Template, e.Key, e.Err)
	}
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a prepare response that cannot be executed.
type ProtocolError struct {
	Missing string
	// Detail is the API's own error text, when it sent one.
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("dispatch prepare response missing %s: %s", e.Missing, e.Detail)
	}
	return fmt.Sprintf("dispatch prepare response missing %s", e.Missing)
}

// Kind names the error kind of err, or "internal" when err is none of the
// kinds in this package.
func Kind(err error) string {
	var (
		cfgErr       *ConfigError
		transportErr *TransportError
		parseErr     *ParseError
		templateErr  *TemplateError
		protocolErr  *ProtocolError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &templateErr):
		return "template"
	case errors.As(err, &protocolErr):
		return "protocol"
	default:
		return "internal"
	}
}
