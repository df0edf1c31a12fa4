// Package fetcher is the single choke point for backend calls. Every
// request composes, in order: cache lookup, in-flight de-duplication,
// queued (rate-limited) execution, and bounded retry with exponential
// backoff. Responses are raw JSON; decoding belongs to the api layer.
package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/haikentcode/csmpilot-sub000/client/internal/cache"
	"github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/requestqueue"
)

// HTTPClient interface for dependency injection.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config tunes retry and caching behavior.
// Zero values are replaced with the defaults below.
type Config struct {
	// MaxAttempts bounds retries of recoverable failures per call.
	MaxAttempts int

	// BaseBackoff is the first retry delay; each further retry doubles
	// it up to MaxInterval.
	BaseBackoff time.Duration
	MaxInterval time.Duration

	// RateLimitWait is how long to wait after a 429 that carries no
	// Retry-After header. Rate-limit waits do not consume the backoff
	// schedule.
	RateLimitWait time.Duration

	// CacheTTL is the default freshness window for cached responses.
	CacheTTL time.Duration

	// DisableCache turns the cache into a pass-through.
	DisableCache bool
}

// Request describes one logical backend call. Key controls cache and
// de-duplication granularity and may differ from the URL (for example,
// including page number and page size).
type Request struct {
	Key    string
	Method string // empty → GET
	URL    string
	Body   []byte

	TTL       time.Duration // 0 → Config.CacheTTL
	SkipCache bool          // bypass lookup and write (mutations)
	Replace   bool          // cancel any in-flight call under Key first
}

// call is one in-flight request shared by de-duplicated callers.
type call struct {
	cancel context.CancelFunc
	done   chan struct{}
	data   []byte
	err    error
}

// Fetcher orchestrates cache, queue and retry for all backend calls.
type Fetcher struct {
	http  HTTPClient
	queue *requestqueue.Queue
	cache *cache.Cache
	cfg   Config

	mu      sync.Mutex
	pending map[string]*call
}

// New constructs a Fetcher. queue and store must be non-nil; ownership
// stays with the caller (the client stops the queue on Close).
func New(httpClient HTTPClient, queue *requestqueue.Queue, store *cache.Cache, cfg Config) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 10 * time.Second
	}
	if cfg.RateLimitWait <= 0 {
		cfg.RateLimitWait = time.Second
	}
	return &Fetcher{
		http:    httpClient,
		queue:   queue,
		cache:   store,
		cfg:     cfg,
		pending: make(map[string]*call),
	}
}

// Do executes one logical request.
//
// Identical concurrent requests (same Key) share a single physical call
// and observe the same outcome. With Replace set, an in-flight call for
// the Key is cancelled first and a fresh one started (latest wins).
func (f *Fetcher) Do(ctx context.Context, req Request) ([]byte, error) {
	if req.Key == "" {
		req.Key = req.Method + " " + req.URL
	}
	cacheable := !f.cfg.DisableCache && !req.SkipCache &&
		(req.Method == "" || req.Method == http.MethodGet)

	if cacheable {
		if data, ok := f.cache.Get(req.Key); ok {
			cacheHitsTotal.Inc()
			return data, nil
		}
		cacheMissesTotal.Inc()
	}

	f.mu.Lock()
	if existing, ok := f.pending[req.Key]; ok {
		if req.Replace {
			existing.cancel()
			delete(f.pending, req.Key)
		} else {
			f.mu.Unlock()
			dedupJoinedTotal.Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-existing.done:
				return existing.data, existing.err
			}
		}
	}
	runCtx, cancel := context.WithCancel(ctx)
	c := &call{cancel: cancel, done: make(chan struct{})}
	f.pending[req.Key] = c
	f.mu.Unlock()

	data, err := f.run(runCtx, req)
	cancel()

	f.mu.Lock()
	// A Replace may have already installed a successor under this key.
	if f.pending[req.Key] == c {
		delete(f.pending, req.Key)
	}
	f.mu.Unlock()

	c.data, c.err = data, err
	close(c.done)

	if err == nil && cacheable {
		f.cache.Set(req.Key, data, req.TTL)
	}
	return data, err
}

// InvalidatePrefix evicts every cache entry whose key starts with
// prefix. Used for cache-busting after mutations.
func (f *Fetcher) InvalidatePrefix(prefix string) int {
	return f.cache.DeletePrefix(prefix)
}

// InvalidateAll clears the cache.
func (f *Fetcher) InvalidateAll() {
	f.cache.Clear()
}

// ------------------------- internals -------------------------

// run drives the bounded retry loop around queued physical attempts.
func (f *Fetcher) run(ctx context.Context, req Request) ([]byte, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = f.cfg.MaxInterval
	exp.RandomizationFactor = 0
	exp.Reset()

	attempts := 0
	rateLimitWaits := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := f.attempt(ctx, req)
		if err == nil {
			return data, nil
		}
		// Client-initiated cancellation aborts immediately, no retry.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.IsIrrecoverable(err) {
			return nil, err
		}
		if errors.IsRateLimited(err) {
			// 429 honors Retry-After and does not consume the backoff
			// schedule, but a server that rate-limits forever must not
			// pin the caller.
			rateLimitWaits++
			if rateLimitWaits > f.cfg.MaxAttempts {
				return nil, err
			}
			wait := errors.RetryAfterHint(err)
			if wait <= 0 {
				wait = f.cfg.RateLimitWait
			}
			retriesTotal.WithLabelValues("rate_limited").Inc()
			if serr := sleep(ctx, wait); serr != nil {
				return nil, serr
			}
			continue
		}
		attempts++
		if attempts >= f.cfg.MaxAttempts {
			return nil, err
		}
		retriesTotal.WithLabelValues("recoverable").Inc()
		if serr := sleep(ctx, exp.NextBackOff()); serr != nil {
			return nil, serr
		}
	}
}

type attemptResult struct {
	data []byte
	err  error
}

// attempt submits one physical request through the queue and waits for
// its outcome.
func (f *Fetcher) attempt(ctx context.Context, req Request) ([]byte, error) {
	res := make(chan attemptResult, 1)
	job := requestqueue.JobFunc(func(jobCtx context.Context) error {
		data, err := f.roundTrip(jobCtx, req)
		res <- attemptResult{data: data, err: err}
		return err
	})
	if err := f.queue.Submit(ctx, job); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		// The dequeued job may still run; its result is discarded here.
		return nil, ctx.Err()
	case r := <-res:
		return r.data, r.err
	}
}

// roundTrip performs the actual HTTP exchange and classifies failures.
func (f *Fetcher) roundTrip(ctx context.Context, req Request) ([]byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewNetworkError(req.Key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(req.Key, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewHTTPError(resp.StatusCode, resp.Header.Get("Retry-After"), string(data), req.Key)
	}
	return data, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
