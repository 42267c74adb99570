package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jobradar/internal/llm/providers"
	"jobradar/pkg/models"
)

type stubProvider struct {
	candidates []models.Candidate
	err        error
}

func (p *stubProvider) ExtractCandidates(ctx context.Context, content, roleKeyword, pageURL string) ([]models.Candidate, error) {
	return p.candidates, p.err
}
func (p *stubProvider) IsHealthy(ctx context.Context) error { return nil }
func (p *stubProvider) GetProviderName() string             { return "stub" }

func TestExtractCandidatesWrapsProviderErrors(t *testing.T) {
	m := &Manager{provider: &stubProvider{err: fmt.Errorf("rate limited")}}

	_, err := m.ExtractCandidates(context.Background(), "content", "engineer", "https://co.example/careers")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}

	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("boundary error type = %T, want *ExtractionError", err)
	}
	if exErr.Provider != "stub" {
		t.Errorf("Provider = %q, want stub", exErr.Provider)
	}
	if !errors.Is(err, exErr.Err) || exErr.Err.Error() != "rate limited" {
		t.Errorf("cause not preserved: %v", exErr.Err)
	}
}

func TestExtractCandidatesKeepsProviderExtractionErrors(t *testing.T) {
	original := &providers.ExtractionFailure{Provider: "claude", Reason: "invalid JSON in response"}
	m := &Manager{provider: &stubProvider{err: original}}

	_, err := m.ExtractCandidates(context.Background(), "content", "engineer", "https://co.example/careers")

	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("boundary error type = %T, want *ExtractionError", err)
	}
	if exErr != original {
		t.Errorf("provider error was double-wrapped: %v", err)
	}
}

func TestExtractCandidatesWithoutProviderFails(t *testing.T) {
	m := &Manager{}

	_, err := m.ExtractCandidates(context.Background(), "content", "engineer", "https://co.example/careers")

	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("boundary error type = %T, want *ExtractionError", err)
	}
}
