package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
)

// YAMLLoader reads configuration from a YAML document.
type YAMLLoader struct{}

// NewYAMLLoader creates a YAML configuration loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load decodes path. Unknown keys are rejected.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Raw, error) {
	ctxlog.FromContext(ctx).Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.ConfigError{Err: err}
	}

	var raw Raw
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &apperr.ConfigError{Err: fmt.Errorf("%s is empty", path)}
		}
		return nil, &apperr.ConfigError{Err: fmt.Errorf("failed to decode YAML file %s: %w", path, err)}
	}
	return &raw, nil
}
