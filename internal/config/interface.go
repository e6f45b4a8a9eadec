package config

import "context"

// Loader decodes one configuration file into a Raw value. Loaders only
// decode; overrides and validation are applied by Load.
type Loader interface {
	Load(ctx context.Context, path string) (*Raw, error)
}
