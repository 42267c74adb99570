package fetch

import (
	"context"
	"fmt"

	"github.com/mendableai/firecrawl-go"

	"jobradar/internal/config"
	"jobradar/internal/logging"
	"jobradar/pkg/models"
)

// FirecrawlEngine fetches pages through the Firecrawl API, which renders
// JavaScript-heavy career pages that a plain GET returns empty. Selected per
// target via the firecrawl scrape strategy.
type FirecrawlEngine struct {
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// NewFirecrawlEngine creates the Firecrawl engine. Returns an error when the
// API key is missing or the client cannot be constructed.
func NewFirecrawlEngine(cfg *config.Config) (*FirecrawlEngine, error) {
	if cfg.Firecrawl.APIKey == "" {
		return nil, fmt.Errorf("firecrawl: API key not configured")
	}

	app, err := firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
	if err != nil {
		return nil, fmt.Errorf("firecrawl: init client: %w", err)
	}

	return &FirecrawlEngine{
		app:    app,
		logger: logging.GetGlobalLogger().WithField("component", "firecrawl_engine"),
	}, nil
}

func (e *FirecrawlEngine) Name() string { return models.StrategyFirecrawl }

func (e *FirecrawlEngine) Fetch(ctx context.Context, pageURL string) (string, error) {
	doc, err := e.app.ScrapeURL(pageURL, &firecrawl.ScrapeParams{
		Formats: []string{"markdown"},
	})
	if err != nil {
		return "", &Error{URL: pageURL, Err: fmt.Errorf("firecrawl scrape: %w", err)}
	}
	if doc == nil {
		return "", &Error{URL: pageURL, Err: fmt.Errorf("firecrawl returned no document")}
	}

	switch {
	case doc.Markdown != "":
		return doc.Markdown, nil
	case doc.HTML != "":
		return doc.HTML, nil
	default:
		return "", &Error{URL: pageURL, Permanent: true, Err: fmt.Errorf("firecrawl returned empty content")}
	}
}
