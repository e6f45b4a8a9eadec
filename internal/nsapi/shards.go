package nsapi

import (
	"context"
	"net/url"
)

// Delegate returns the raw DELEGATE field of region. The API reports a region
// without a delegate as "0".
func (c *Client) Delegate(ctx context.Context, region string) (string, error) {
	resp, err := c.get(ctx, url.Values{"region": {region}, "q": {"delegate"}})
	if err != nil {
		return "", err
	}
	return field(resp.body, "DELEGATE")
}

// WANations returns the World Assembly members of region in API order.
func (c *Client) WANations(ctx context.Context, region string) ([]string, error) {
	resp, err := c.get(ctx, url.Values{"region": {region}, "q": {"wanations"}})
	if err != nil {
		return nil, err
	}
	text, err := field(resp.body, "UNNATIONS")
	if err != nil {
		return nil, err
	}
	return splitRoster(text), nil
}

// Endorsements returns the nations endorsing nation in API order.
func (c *Client) Endorsements(ctx context.Context, nation string) ([]string, error) {
	resp, err := c.get(ctx, url.Values{"nation": {nation}, "q": {"endorsements"}})
	if err != nil {
		return nil, err
	}
	text, err := field(resp.body, "ENDORSEMENTS")
	if err != nil {
		return nil, err
	}
	return splitRoster(text), nil
}
