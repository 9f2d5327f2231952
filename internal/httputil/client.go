// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/study-catalog/pkg/types"
)

const defaultTimeout = 30 * time.Second

// userAgentTransport stamps every outgoing request with a User-Agent.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}

// NewClient builds an HTTP client from config: request timeout plus a
// transport that sets the configured User-Agent on every request.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.UserAgent != "" {
		client.Transport = &userAgentTransport{
			agent: cfg.UserAgent,
			next:  http.DefaultTransport,
		}
	}
	return client
}
