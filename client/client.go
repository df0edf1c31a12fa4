// Package client is the Go SDK for the CSM copilot backend. A Client is
// constructed explicitly by the application entry point and owns the
// response cache, the request queue and the retry policy; there are no
// package-level singletons.
package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haikentcode/csmpilot-sub000/client/internal/cache"
	"github.com/haikentcode/csmpilot-sub000/client/internal/fetcher"
	"github.com/haikentcode/csmpilot-sub000/client/internal/requestqueue"
	"github.com/haikentcode/csmpilot-sub000/devmode"
)

// --------------------------------------------------------------------
// debugTransport – optional HTTP round-trip logger
// --------------------------------------------------------------------

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if os.Getenv("CSM_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		reqDump, err := httputil.DumpRequestOut(req, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		if os.Getenv("CSM_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if os.Getenv("CSM_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		respDump, err := httputil.DumpResponse(resp, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// --------------------------------------------------------------------
// apiKeyTransport – bearer-token injection
// --------------------------------------------------------------------

type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (at *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+at.apiKey)
	return at.base.RoundTrip(clone)
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	queue   *requestqueue.Queue
	fetch   *fetcher.Fetcher

	demoMode bool

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client with optional functional arguments.
func New(base string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if os.Getenv("CSM_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		opts = append(opts, WithDebugLogging(true))
	}

	cfg := fetcher.Config{}
	qcfg, err := requestqueue.LoadConfig()
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(c, &cfg, &qcfg); err != nil {
			return nil, err
		}
	}

	c.queue = requestqueue.New(qcfg)
	c.fetch = fetcher.New(c.http, c.queue, cache.New(cfg.CacheTTL), cfg)
	return c, nil
}

// NewWithDevMode constructs a Client authenticated with the shared
// local-development API key.
func NewWithDevMode(base string, opts ...Option) (*Client, error) {
	return New(base, append([]Option{WithAPIKey(devmode.APIKey)}, opts...)...)
}

// MustNew constructs a Client with panic-on-error semantics (for testing).
func MustNew(base string, opts ...Option) *Client {
	c, err := New(base, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Close stops the request queue. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.queue.Stop()
	return nil
}

// InvalidateCustomer evicts all cached responses for one customer.
// Callers use it after out-of-band mutations; CreateFeedback does this
// automatically.
func (c *Client) InvalidateCustomer(id int) int {
	return c.fetch.InvalidatePrefix(customerKeyPrefix(id))
}

// InvalidateAll clears the whole response cache.
func (c *Client) InvalidateAll() {
	c.fetch.InvalidateAll()
}
