package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobradar/internal/config"
	"jobradar/internal/llm/processors"
	"jobradar/internal/logging"
	"jobradar/internal/logging/types"
	"jobradar/pkg/models"
)

// ExtractionFailure mirrors llm.ExtractionError without importing the parent
// package. The llm package re-wraps it at the boundary.
type ExtractionFailure struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ExtractionFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Provider, e.Reason)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

// ClaudeProvider extracts job listings using Anthropic's Claude
type ClaudeProvider struct {
	client  anthropic.Client
	config  *config.Config
	cleaner *processors.ListingCleaner
	logger  types.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client:  client,
		config:  cfg,
		cleaner: processors.NewListingCleaner(),
		logger:  logging.GetGlobalLogger(),
	}
}

// ExtractCandidates sends the cleaned page content to Claude and parses the
// returned candidate list
func (cp *ClaudeProvider) ExtractCandidates(ctx context.Context, content, roleKeyword, pageURL string) ([]models.Candidate, error) {
	startTime := time.Now()

	cp.logger.Info("Starting listing extraction with Claude", map[string]interface{}{
		"url":            pageURL,
		"role_keyword":   roleKeyword,
		"content_length": len(content),
	})

	cleaned, err := cp.cleaner.PrepareContent(content)
	if err != nil {
		return nil, &ExtractionFailure{Provider: "claude", Reason: "failed to clean page content", Err: err}
	}

	if cp.cleaner.EstimateTokens(cleaned) > cp.config.LLM.MaxTokens {
		cleaned = cleaned[:cp.config.LLM.MaxTokens*4] + "..."
		cp.logger.Debug("Content truncated to fit token limits", map[string]interface{}{
			"url": pageURL,
		})
	}

	prompt := cp.buildExtractionPrompt(cleaned, roleKeyword, pageURL)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, &ExtractionFailure{Provider: "claude", Reason: "API call failed", Err: err}
	}

	candidates, dropped, err := cp.parseResponse(response)
	if err != nil {
		return nil, err
	}

	cp.logger.Info("Listing extraction completed", map[string]interface{}{
		"url":             pageURL,
		"candidates":      len(candidates),
		"dropped":         dropped,
		"processing_time": time.Since(startTime).String(),
	})

	return candidates, nil
}

const fewShotExamples = `Example Input (raw HTML snippet):
<div class="job-card">
  <h3><a href="/careers/swe-123">Senior Software Engineer</a></h3>
  <span class="location">San Francisco, CA</span>
  <span class="date">Posted Jan 15, 2026</span>
</div>
<div class="job-listing">
  <a href="https://boards.greenhouse.io/company/jobs/456">ML Engineer</a>
  <p>New York, NY (Hybrid)</p>
  <time datetime="2026-01-13">2 days ago</time>
</div>
<div class="position-item">
  <h4>Backend Engineer</h4>
  <a class="apply-button" href="/apply/789">Apply Now</a>
  <span>Remote - US</span>
</div>

Example Output:
[
  {"title": "Senior Software Engineer", "url": "/careers/swe-123", "location": "San Francisco, CA", "posted_date": "Jan 15, 2026"},
  {"title": "ML Engineer", "url": "https://boards.greenhouse.io/company/jobs/456", "location": "New York, NY (Hybrid)", "posted_date": "2 days ago"},
  {"title": "Backend Engineer", "url": "/apply/789", "location": "Remote - US", "posted_date": null}
]`

// buildExtractionPrompt creates the prompt for Claude to extract the listing
func (cp *ClaudeProvider) buildExtractionPrompt(content, roleKeyword, pageURL string) string {
	return fmt.Sprintf(`You are an expert technical recruiter and job board analyst. You have parsed every major ATS system: Greenhouse, Lever, Workday, Ashby, and custom career sites. Extract job listings from the careers page content below.

TARGET URL: %s
TARGET ROLE: "%s"

PROCESS:
1. Identify ALL job postings that match or relate to "%s"
2. Include variations: "Senior %s", "Staff %s", "%s II", etc.
3. Extract the EXACT href URL from each job's link (NOT button text!)
4. Extract location, handling "Remote", "Hybrid", or specific cities
5. Extract posting date if visible (any format is acceptable)

OUTPUT FORMAT - Return ONLY a JSON array:
[
  {"title": "Job Title", "url": "/path/to/job", "location": "City, State", "posted_date": "Jan 15"},
  ...
]

%s

CRITICAL URL RULES:
1. The URL MUST be from an href attribute, NOT visible button text
2. "Apply Now", "View Job", "Learn More" are button labels, NOT URLs
3. Look inside <a href="..."> to find the real URL
4. Relative URLs like "/jobs/123" are valid
5. If job links to Greenhouse, Lever, Workday - include the full URL

CRITICAL TITLE RULES:
1. Extract the actual job title, not "Apply Now" or generic text
2. Include level indicators: "Senior", "Staff", "Principal", etc.
3. Clean up extra whitespace and formatting

VALIDATION CHECKLIST (verify before responding):
- Every "url" field contains an actual URL path, not "Apply Now"
- Every "title" field is a real job title
- Output is valid JSON array (no markdown, no explanation)
- Empty array [] if no matching jobs found

RESPOND WITH JSON ONLY - NO EXPLANATIONS

CAREERS PAGE CONTENT:
%s`, pageURL, roleKeyword, roleKeyword, roleKeyword, roleKeyword, roleKeyword, fewShotExamples, content)
}

// parseResponse parses the Claude response into candidates, dropping entries
// that lack a title or URL
func (cp *ClaudeProvider) parseResponse(response *anthropic.Message) ([]models.Candidate, int, error) {
	if len(response.Content) == 0 {
		return nil, 0, &ExtractionFailure{Provider: "claude", Reason: "empty response"}
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}

	if responseText == "" {
		return nil, 0, &ExtractionFailure{Provider: "claude", Reason: "no text content in response"}
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.ReplaceAll(responseText, "```json", "")
	responseText = strings.ReplaceAll(responseText, "```", "")

	// The model sometimes wraps the array in prose despite instructions
	start := strings.Index(responseText, "[")
	end := strings.LastIndex(responseText, "]")
	if start == -1 || end == -1 || end < start {
		return nil, 0, &ExtractionFailure{Provider: "claude", Reason: "no JSON array in response"}
	}
	responseText = responseText[start : end+1]

	var raw []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Location   string `json:"location"`
		PostedDate string `json:"posted_date"`
	}
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, 0, &ExtractionFailure{Provider: "claude", Reason: "invalid JSON in response", Err: err}
	}

	candidates := make([]models.Candidate, 0, len(raw))
	dropped := 0
	for _, entry := range raw {
		title := strings.TrimSpace(entry.Title)
		jobURL := strings.TrimSpace(entry.URL)
		if title == "" || jobURL == "" {
			cp.logger.Debug("Dropping candidate without title or URL", map[string]interface{}{
				"title": entry.Title,
				"url":   entry.URL,
			})
			dropped++
			continue
		}
		candidates = append(candidates, models.Candidate{
			Title:      title,
			URL:        jobURL,
			Location:   strings.TrimSpace(entry.Location),
			PostedDate: strings.TrimSpace(entry.PostedDate),
		})
	}

	return candidates, dropped, nil
}

// IsHealthy checks if the Claude provider is reachable
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured, set LLM_API_KEY")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
