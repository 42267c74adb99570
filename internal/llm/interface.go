package llm

import (
	"context"

	"jobradar/internal/llm/providers"
	"jobradar/pkg/models"
)

// Provider defines the interface for LLM-backed listing extraction
type Provider interface {
	// ExtractCandidates processes page content and extracts the job listings
	// matching the role keyword
	ExtractCandidates(ctx context.Context, content, roleKeyword, pageURL string) ([]models.Candidate, error)

	// IsHealthy checks if the provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// ExtractionError indicates the provider call or its output could not be
// turned into a candidate list
type ExtractionError = providers.ExtractionFailure
