package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jobradar/internal/config"
	"jobradar/internal/logging"
	"jobradar/internal/logging/types"
	"jobradar/pkg/models"
)

// Manager manages the LLM provider lifecycle
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	logger   types.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start creates the provider and probes its health
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	m.provider = provider

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("LLM provider health check failed, extraction will be unavailable", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
			"error":    err.Error(),
		})
		m.healthy = false
		// Server still starts, runs will report extraction_failed
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.provider = nil
	m.healthy = false
	return nil
}

// ExtractCandidates extracts job listings from page content using the
// configured provider. Errors crossing this boundary are always an
// *ExtractionError so callers can rely on one failure type
func (m *Manager) ExtractCandidates(ctx context.Context, content, roleKeyword, pageURL string) ([]models.Candidate, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return nil, &ExtractionError{Provider: "none", Reason: "manager not started"}
	}

	candidates, err := provider.ExtractCandidates(ctx, content, roleKeyword, pageURL)
	if err != nil {
		var exErr *ExtractionError
		if !errors.As(err, &exErr) {
			err = &ExtractionError{Provider: provider.GetProviderName(), Reason: "extraction failed", Err: err}
		}
		return nil, err
	}
	return candidates, nil
}

// IsHealthy reports the result of the last health probe
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth re-probes the provider and updates the cached health state
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
