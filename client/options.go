package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/haikentcode/csmpilot-sub000/client/internal/fetcher"
	"github.com/haikentcode/csmpilot-sub000/client/internal/requestqueue"
)

// Option mutates the Client and its fetch/queue configuration during New().
type Option func(*Client, *fetcher.Config, *requestqueue.Config) error

// WithHTTPClient injects a custom *http.Client. Useful for setting transport
// timeouts, tracing, custom TLS settings, etc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client, _ *fetcher.Config, _ *requestqueue.Config) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout overrides the default 30s request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client, _ *fetcher.Config, _ *requestqueue.Config) error {
		if d <= 0 {
			return fmt.Errorf("non-positive http timeout %v", d)
		}
		c.http.Timeout = d
		return nil
	}
}

// WithAPIKey attaches a bearer token to every outgoing request.
func WithAPIKey(key string) Option {
	return func(c *Client, _ *fetcher.Config, _ *requestqueue.Config) error {
		if key == "" {
			return fmt.Errorf("empty api key")
		}
		transport := c.http.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.http.Transport = &apiKeyTransport{base: transport, apiKey: key}
		return nil
	}
}

// WithDebugLogging wraps the client's transport such that every
// request/response is logged when `enabled` is true.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client, _ *fetcher.Config, _ *requestqueue.Config) error {
		if enabled {
			transport := c.http.Transport
			if transport == nil {
				transport = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: transport}
		}
		return nil
	}
}

// WithCacheTTL sets the default freshness window for cached responses.
func WithCacheTTL(ttl time.Duration) Option {
	return func(_ *Client, fc *fetcher.Config, _ *requestqueue.Config) error {
		if ttl <= 0 {
			return fmt.Errorf("non-positive cache ttl %v", ttl)
		}
		fc.CacheTTL = ttl
		return nil
	}
}

// WithoutCache disables response caching entirely.
func WithoutCache() Option {
	return func(_ *Client, fc *fetcher.Config, _ *requestqueue.Config) error {
		fc.DisableCache = true
		return nil
	}
}

// WithMaxAttempts bounds how many times a recoverable failure is retried.
func WithMaxAttempts(n int) Option {
	return func(_ *Client, fc *fetcher.Config, _ *requestqueue.Config) error {
		if n <= 0 {
			return fmt.Errorf("non-positive attempt limit %d", n)
		}
		fc.MaxAttempts = n
		return nil
	}
}

// WithBaseBackoff sets the first retry delay. Each further retry doubles it.
func WithBaseBackoff(d time.Duration) Option {
	return func(_ *Client, fc *fetcher.Config, _ *requestqueue.Config) error {
		if d <= 0 {
			return fmt.Errorf("non-positive backoff %v", d)
		}
		fc.BaseBackoff = d
		return nil
	}
}

// WithRateLimitDelay sets the wait applied after a 429 response that
// carries no Retry-After header.
func WithRateLimitDelay(d time.Duration) Option {
	return func(_ *Client, fc *fetcher.Config, _ *requestqueue.Config) error {
		if d <= 0 {
			return fmt.Errorf("non-positive rate-limit delay %v", d)
		}
		fc.RateLimitWait = d
		return nil
	}
}

// WithMinRequestInterval sets the minimum spacing between request starts.
func WithMinRequestInterval(d time.Duration) Option {
	return func(_ *Client, _ *fetcher.Config, qc *requestqueue.Config) error {
		if d <= 0 {
			return fmt.Errorf("non-positive request interval %v", d)
		}
		qc.MinInterval = d
		return nil
	}
}

// WithDemoMode makes the AI-backed reads (profile summary, similar
// customers) degrade to canned fallback content instead of returning an
// error when the backend is unreachable or has no AI pipeline configured.
func WithDemoMode(enabled bool) Option {
	return func(c *Client, _ *fetcher.Config, _ *requestqueue.Config) error {
		c.demoMode = enabled
		return nil
	}
}
