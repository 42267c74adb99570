package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jobradar/internal/config"
	"jobradar/pkg/models"
)

func testConfig() *config.Config {
	cfg, _ := config.LoadConfig("")
	cfg.Fetcher.MaxRetries = 3
	cfg.Fetcher.RetryBaseDelay = time.Millisecond
	cfg.Fetcher.RetryMaxDelay = 5 * time.Millisecond
	cfg.Fetcher.RequestTimeout = 2 * time.Second
	cfg.Fetcher.HostRateLimit = 6000 // effectively unlimited for tests
	cfg.Fetcher.HostBurst = 100
	return cfg
}

func newTestFetcher(t *testing.T, cfg *config.Config) *Fetcher {
	t.Helper()
	limiter := NewHostLimiter(cfg)
	t.Cleanup(limiter.Stop)
	return NewFetcher(cfg, limiter, nil, NewHTTPEngine(cfg))
}

func TestFetchRetriesTransientServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<html>jobs</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, testConfig())
	content, err := f.Fetch(context.Background(), srv.URL, models.StrategyDefault)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if content != "<html>jobs</html>" {
		t.Errorf("unexpected content %q", content)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, testConfig())
	_, err := f.Fetch(context.Background(), srv.URL, models.StrategyDefault)

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !fe.Permanent || fe.StatusCode != http.StatusNotFound {
		t.Errorf("expected permanent 404 error, got %+v", fe)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("404 must not be retried, got %d attempts", got)
	}
}

func TestFetchTreats429AsTransientAndHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testConfig()
	// The backoff schedule would wait an hour; only the header delay can
	// let the retry happen within the test deadline
	cfg.Fetcher.RetryBaseDelay = time.Hour
	cfg.Fetcher.RetryMaxDelay = time.Hour
	f := newTestFetcher(t, cfg)

	start := time.Now()
	content, err := f.Fetch(context.Background(), srv.URL, models.StrategyDefault)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if content != "ok" {
		t.Errorf("unexpected content %q", content)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 429 to be retried once, got %d attempts", calls.Load())
	}
	elapsed := time.Since(start)
	if elapsed < time.Second || elapsed > 10*time.Second {
		t.Errorf("Retry-After of 1s not honored over the backoff schedule, waited %v", elapsed)
	}
}

func TestFetchMalformedURLFailsWithoutAttempt(t *testing.T) {
	f := newTestFetcher(t, testConfig())
	_, err := f.Fetch(context.Background(), "not a url", models.StrategyDefault)

	var fe *Error
	if !errors.As(err, &fe) || !fe.Permanent {
		t.Fatalf("expected permanent error for malformed URL, got %v", err)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig()
	f := newTestFetcher(t, cfg)
	_, err := f.Fetch(context.Background(), srv.URL, models.StrategyDefault)

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != int32(cfg.Fetcher.MaxRetries) {
		t.Errorf("expected %d attempts, got %d", cfg.Fetcher.MaxRetries, got)
	}
}

func TestFetchUnknownStrategyFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, testConfig())
	content, err := f.Fetch(context.Background(), srv.URL, "no-such-engine")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if content != "page" {
		t.Errorf("unexpected content %q", content)
	}
}
