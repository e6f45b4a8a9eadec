// Package roster computes which World Assembly members of a region are not
// endorsing its delegate.
package roster

import (
	"context"
	"fmt"

	"github.com/vk/nne/internal/ctxlog"
)

// Source reads the two rosters the difference is computed from.
type Source interface {
	WANations(ctx context.Context, region string) ([]string, error)
	Endorsements(ctx context.Context, nation string) ([]string, error)
}

// Difference returns every handle of members that does not appear in
// endorsements. Member order and duplicates are kept; matching is exact.
func Difference(members, endorsements []string) []string {
	endorsing := make(map[string]struct{}, len(endorsements))
	for _, n := range endorsements {
		endorsing[n] = struct{}{}
	}
	out := make([]string, 0, len(members))
	for _, n := range members {
		if _, ok := endorsing[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Differencer fetches rosters from a Source and diffs them.
type Differencer struct {
	source Source
}

// NewDifferencer creates a Differencer backed by source.
func NewDifferencer(source Source) *Differencer {
	return &Differencer{source: source}
}

// NonEndorsing returns the World Assembly members of region that do not
// endorse delegate, in the order the API lists members.
func (d *Differencer) NonEndorsing(ctx context.Context, region, delegate string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	members, err := d.source.WANations(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("fetch members of %s: %w", region, err)
	}
	logger.Debug("Fetched World Assembly members.", "region", region, "count", len(members))

	endorsements, err := d.source.Endorsements(ctx, delegate)
	if err != nil {
		return nil, fmt.Errorf("fetch endorsements of %s: %w", delegate, err)
	}
	logger.Debug("Fetched delegate endorsements.", "delegate", delegate, "count", len(endorsements))

	return Difference(members, endorsements), nil
}
