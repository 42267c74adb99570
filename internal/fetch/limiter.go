package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobradar/internal/config"
	"jobradar/internal/logging"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// circuitBreaker tracks consecutive failures for one host and temporarily
// rejects requests once the failure threshold is hit.
type circuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailTime time.Time
	state        CircuitState
	mu           sync.Mutex
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.state = CircuitClosed
}

// recordFailure reports whether this failure opened the circuit.
func (cb *circuitBreaker) recordFailure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.state == CircuitHalfOpen || (cb.state == CircuitClosed && cb.failureCount >= cb.maxFailures) {
		cb.state = CircuitOpen
		return true
	}
	return false
}

// hostEntry pairs a host's rate limiter with its circuit breaker.
type hostEntry struct {
	limiter  *rate.Limiter
	breaker  *circuitBreaker
	lastSeen time.Time
}

// HostLimiter spaces requests per destination host and circuit-breaks hosts
// that keep failing. Requests to different hosts proceed independently.
type HostLimiter struct {
	hosts       map[string]*hostEntry
	perMinute   int
	burst       int
	mu          sync.Mutex
	logger      logging.Logger
	stopCleanup chan struct{}
}

// NewHostLimiter creates a host limiter from the fetcher configuration.
func NewHostLimiter(cfg *config.Config) *HostLimiter {
	hl := &HostLimiter{
		hosts:       make(map[string]*hostEntry),
		perMinute:   cfg.Fetcher.HostRateLimit,
		burst:       cfg.Fetcher.HostBurst,
		logger:      logging.GetGlobalLogger().WithField("component", "host_limiter"),
		stopCleanup: make(chan struct{}),
	}
	go hl.cleanupLoop()
	return hl
}

func (hl *HostLimiter) entry(host string) *hostEntry {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	host = strings.ToLower(host)
	if e, ok := hl.hosts[host]; ok {
		e.lastSeen = time.Now()
		return e
	}

	rps := rate.Limit(float64(hl.perMinute) / 60.0)
	e := &hostEntry{
		limiter: rate.NewLimiter(rps, hl.burst),
		breaker: &circuitBreaker{
			maxFailures:  5,
			resetTimeout: 30 * time.Second,
		},
		lastSeen: time.Now(),
	}
	hl.hosts[host] = e

	hl.logger.Debug("Created host limiter", map[string]interface{}{
		"host":  host,
		"rate":  float64(rps),
		"burst": hl.burst,
	})
	return e
}

// Wait blocks until the host's rate limiter admits a request, or fails
// immediately when the host's circuit is open.
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	e := hl.entry(host)

	if !e.breaker.allow() {
		return &Error{
			URL:       host,
			Permanent: false,
			Err:       fmt.Errorf("circuit open for host %s", host),
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// RecordSuccess resets the host's failure tracking.
func (hl *HostLimiter) RecordSuccess(host string) {
	hl.entry(host).breaker.recordSuccess()
}

// RecordFailure counts a failed request against the host's circuit breaker.
func (hl *HostLimiter) RecordFailure(host string, err error) {
	if hl.entry(host).breaker.recordFailure() {
		hl.logger.Warn("Circuit breaker opened", map[string]interface{}{
			"host":  host,
			"error": err.Error(),
		})
	}
}

// Stop terminates the idle-host cleanup goroutine.
func (hl *HostLimiter) Stop() {
	close(hl.stopCleanup)
}

func (hl *HostLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-hl.stopCleanup:
			return
		case <-ticker.C:
			hl.mu.Lock()
			for host, e := range hl.hosts {
				if time.Since(e.lastSeen) > 30*time.Minute {
					delete(hl.hosts, host)
				}
			}
			hl.mu.Unlock()
		}
	}
}
