package nsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://www.nationstates.net/cgi-bin/api.cgi"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client issues API requests on behalf of one user agent.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client identifying itself with userAgent, which the
// API requires on every request.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: userAgent,
		http:      NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a fully read API response.
type response struct {
	header http.Header
	body   []byte
}

// get performs a shard query.
func (c *Client) get(ctx context.Context, query url.Values) (*response, error) {
	target := c.baseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(ctx, req, nil)
}

// post performs a form-encoded command request with the extra headers.
func (c *Client) post(ctx context.Context, form url.Values, header http.Header) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, req, header)
}

func (c *Client) do(ctx context.Context, req *http.Request, header http.Header) (*response, error) {
	logger := ctxlog.FromContext(ctx)

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)

	logger.Debug("Making API request.", "method", req.Method, "url", req.URL.Redacted())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: req.Method, URL: req.URL.Redacted(), Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()
	logger.Debug("Received API response.", "status", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &apperr.TransportError{Op: req.Method, URL: req.URL.Redacted(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.TransportError{
			Op:         req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Err:        statusError(resp.StatusCode, body),
		}
	}
	return &response{header: resp.Header, body: body}, nil
}

// unwrapURLError drops the *url.Error layer, whose message repeats the URL
// already carried by TransportError.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func statusError(code int, body []byte) error {
	if msg, ok, _ := findElement(body, "ERROR"); ok && msg != "" {
		return fmt.Errorf("%s: %s", http.StatusText(code), msg)
	}
	return errors.New(http.StatusText(code))
}
