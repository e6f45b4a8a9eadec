package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
	"github.com/vk/nne/internal/fsutil"
)

// DefaultPath is read when no configuration path is given.
const DefaultPath = "./config.yml"

// validate is shared; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their document key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// LoaderFor picks the Loader for path by its extension.
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return NewYAMLLoader(), nil
	case ".hcl":
		return NewHCLLoader(), nil
	default:
		return nil, &apperr.ConfigError{Err: fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))}
	}
}

// Load reads the configuration at path (a file, or a directory holding one
// of fsutil.ConfigNames), applies environment overrides and validates it.
func Load(ctx context.Context, path string) (*Raw, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		path = DefaultPath
	}

	file, err := fsutil.FindConfigFile(path)
	if err != nil {
		return nil, &apperr.ConfigError{Err: err}
	}
	loader, err := LoaderFor(file)
	if err != nil {
		return nil, err
	}
	raw, err := loader.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration file decoded.", "path", file)

	if err := ApplyEnv(raw); err != nil {
		return nil, err
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded.", "config", *raw)
	return raw, nil
}

// ApplyEnv overrides raw with any NNE_* environment variables that are set.
func ApplyEnv(raw *Raw) error {
	if err := env.Parse(raw); err != nil {
		return &apperr.ConfigError{Err: fmt.Errorf("parse env: %w", err)}
	}
	return nil
}

// Validate checks required fields and formats. The first problem found is
// reported as a *apperr.ConfigError naming the field.
func Validate(raw *Raw) error {
	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &apperr.ConfigError{Field: fe.Field(), Err: fmt.Errorf("failed %q validation", fe.Tag())}
		}
		return &apperr.ConfigError{Err: err}
	}
	_, err := raw.TimeoutDuration()
	return err
}
