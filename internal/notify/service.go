package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/logging"
	"jobradar/internal/logging/types"
	"jobradar/internal/retry"
	"jobradar/pkg/models"
)

// Service fans a job digest out to every configured channel. Channels fail
// independently, one broken webhook never blocks the others.
type Service struct {
	channels []Channel
	policy   retry.Policy
	logger   types.Logger
}

// NewService creates the notification service. Extra channels beyond the
// built-in three can be injected, tests use this.
func NewService(cfg *config.Config, channels ...Channel) *Service {
	if len(channels) == 0 {
		channels = []Channel{
			NewEmailChannel(cfg),
			NewSlackChannel(cfg),
			NewDiscordChannel(cfg),
		}
	}

	return &Service{
		channels: channels,
		policy: retry.Policy{
			MaxAttempts: cfg.Notifications.MaxAttempts,
			BaseDelay:   cfg.Notifications.RetryBaseDelay,
			MaxDelay:    30 * time.Second,
			Jitter:      0.3,
			Retryable:   IsTransient,
		},
		logger: logging.GetGlobalLogger(),
	}
}

// ConfiguredChannels returns the names of channels with usable credentials
func (s *Service) ConfiguredChannels() []string {
	names := make([]string, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsConfigured() {
			names = append(names, ch.Name())
		}
	}
	return names
}

// SendAll delivers the digest through all configured channels in parallel
// and returns the per-channel results keyed by channel name
func (s *Service) SendAll(ctx context.Context, jobs []models.JobRecord) map[string]Result {
	results := make(map[string]Result)
	if len(jobs) == 0 {
		return results
	}

	var active []Channel
	for _, ch := range s.channels {
		if ch.IsConfigured() {
			active = append(active, ch)
		}
	}

	if len(active) == 0 {
		s.logger.Warn("No notification channels configured, jobs recorded without notification", map[string]interface{}{
			"new_jobs": len(jobs),
		})
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ch := range active {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			result := s.sendWithRetry(ctx, ch, jobs)
			mu.Lock()
			results[ch.Name()] = result
			mu.Unlock()
		}(ch)
	}
	wg.Wait()

	return results
}

// SendTest delivers a sample digest through one named channel
func (s *Service) SendTest(ctx context.Context, channelName string) Result {
	sample := []models.JobRecord{{
		CompanyName: "Example Corp",
		Title:       "Staff Software Engineer",
		URL:         "https://example.com/careers/staff-swe",
		Location:    "Remote",
		PostedDate:  time.Now().Format("Jan 2, 2006"),
	}}

	for _, ch := range s.channels {
		if ch.Name() != channelName {
			continue
		}
		if !ch.IsConfigured() {
			return Result{Channel: channelName, Success: false, Error: "channel not configured"}
		}
		return s.sendWithRetry(ctx, ch, sample)
	}

	return Result{Channel: channelName, Success: false, Error: fmt.Sprintf("unknown channel: %s", channelName)}
}

func (s *Service) sendWithRetry(ctx context.Context, ch Channel, jobs []models.JobRecord) Result {
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		return ch.Send(ctx, jobs)
	})
	if err != nil {
		s.logger.Error("Notification delivery failed", map[string]interface{}{
			"channel": ch.Name(),
			"error":   err.Error(),
		})
		return Result{Channel: ch.Name(), Success: false, Error: err.Error()}
	}

	s.logger.Info("Notification delivered", map[string]interface{}{
		"channel": ch.Name(),
		"jobs":    len(jobs),
	})
	return Result{Channel: ch.Name(), Success: true, Message: fmt.Sprintf("delivered digest of %d job(s)", len(jobs))}
}
