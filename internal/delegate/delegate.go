// Package delegate resolves the current World Assembly delegate of a region.
package delegate

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/nne/internal/ctxlog"
)

// ErrNoDelegate is returned when the region exists but has no delegate.
var ErrNoDelegate = errors.New("region has no delegate")

// noDelegate is the DELEGATE value the API uses for a vacant seat.
const noDelegate = "0"

// Source reads the raw DELEGATE field of a region.
type Source interface {
	Delegate(ctx context.Context, region string) (string, error)
}

// Resolver looks up delegates through a Source.
type Resolver struct {
	source Source
}

// NewResolver creates a Resolver backed by source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the handle of region's delegate. A vacant seat yields
// ErrNoDelegate; transport and parse failures from the source pass through.
func (r *Resolver) Resolve(ctx context.Context, region string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving delegate.", "region", region)

	handle, err := r.source.Delegate(ctx, region)
	if err != nil {
		return "", fmt.Errorf("resolve delegate of %s: %w", region, err)
	}
	if handle == "" || handle == noDelegate {
		return "", fmt.Errorf("resolve delegate of %s: %w", region, ErrNoDelegate)
	}

	logger.Debug("Delegate resolved.", "region", region, "delegate", handle)
	return handle, nil
}
