// Package fetch retrieves raw career-page content under per-host rate
// limits, bounded retries and an optional shared page cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/logging"
	"jobradar/internal/retry"
	"jobradar/pkg/models"
)

// Error is a fetch failure. Permanent errors (4xx other than 429, malformed
// URLs) are not retried; everything else is treated as transient.
type Error struct {
	URL        string
	StatusCode int
	RetryAfter time.Duration
	Permanent  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RetryDelay reports the server-provided delay, if any, so the retry policy
// can honor Retry-After on 429 responses.
func (e *Error) RetryDelay() time.Duration { return e.RetryAfter }

// Engine retrieves the raw content of a single URL.
type Engine interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// HTTPEngine is the default engine: a plain GET with a browser user agent.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPEngine creates the default HTTP fetch engine.
func NewHTTPEngine(cfg *config.Config) *HTTPEngine {
	return &HTTPEngine{
		client:    &http.Client{Timeout: cfg.Fetcher.RequestTimeout},
		userAgent: cfg.Fetcher.UserAgent,
		maxBody:   cfg.Fetcher.MaxBodyBytes,
	}
}

func (e *HTTPEngine) Name() string { return models.StrategyDefault }

func (e *HTTPEngine) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &Error{URL: pageURL, Permanent: true, Err: err}
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := &Error{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			fe.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			fe.Permanent = true
		}
		return "", fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return "", &Error{URL: pageURL, Err: err}
	}
	return string(body), nil
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
// The HTTP-date form is rare on career pages and falls back to the backoff
// schedule.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// Fetcher is the rate-limited, retrying front of the fetch engines.
type Fetcher struct {
	engines map[string]Engine
	limiter *HostLimiter
	cache   *PageCache
	policy  retry.Policy
	logger  logging.Logger
}

// NewFetcher assembles a fetcher. cache may be nil; engines are selected per
// target via its scrape strategy, falling back to the default engine.
func NewFetcher(cfg *config.Config, limiter *HostLimiter, cache *PageCache, engines ...Engine) *Fetcher {
	f := &Fetcher{
		engines: make(map[string]Engine, len(engines)),
		limiter: limiter,
		cache:   cache,
		policy: retry.Policy{
			MaxAttempts: cfg.Fetcher.MaxRetries,
			BaseDelay:   cfg.Fetcher.RetryBaseDelay,
			MaxDelay:    cfg.Fetcher.RetryMaxDelay,
			Jitter:      0.3,
			Retryable:   IsTransient,
		},
		logger: logging.GetGlobalLogger().WithField("component", "fetcher"),
	}
	for _, e := range engines {
		f.engines[e.Name()] = e
	}
	return f
}

// IsTransient classifies fetch errors for the retry policy.
func IsTransient(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return !fe.Permanent
	}
	// Network-level errors without a response are transient.
	return true
}

// Fetch retrieves the content of pageURL using the engine selected by
// strategy, honoring the host rate limit and retrying transient failures.
func (f *Fetcher) Fetch(ctx context.Context, pageURL, strategy string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return "", &Error{URL: pageURL, Permanent: true, Err: fmt.Errorf("malformed URL: %q", pageURL)}
	}
	host := parsed.Host

	if f.cache != nil {
		if content, ok := f.cache.Get(ctx, pageURL); ok {
			f.logger.Debug("Page cache hit", map[string]interface{}{"url": pageURL})
			return content, nil
		}
	}

	engine, ok := f.engines[strategy]
	if !ok {
		engine = f.engines[models.StrategyDefault]
	}
	if engine == nil {
		return "", &Error{URL: pageURL, Permanent: true, Err: fmt.Errorf("no engine for strategy %q", strategy)}
	}

	var content string
	err = f.policy.Do(ctx, func(ctx context.Context) error {
		if err := f.limiter.Wait(ctx, host); err != nil {
			return err
		}

		body, err := engine.Fetch(ctx, pageURL)
		if err != nil {
			f.limiter.RecordFailure(host, err)
			f.logger.Warn("Fetch attempt failed", map[string]interface{}{
				"url":    pageURL,
				"engine": engine.Name(),
				"error":  err.Error(),
			})
			return err
		}

		f.limiter.RecordSuccess(host)
		content = body
		return nil
	})
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		f.cache.Set(ctx, pageURL, content)
	}
	return content, nil
}
