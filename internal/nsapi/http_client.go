package nsapi

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every API request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns the *http.Client used for API calls. A non-positive
// timeout selects DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        4,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
