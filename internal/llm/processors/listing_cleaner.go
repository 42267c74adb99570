package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingCleaner strips career pages down to the markup that carries job
// listings. Unlike plain text extraction it must keep anchor hrefs, the
// model needs them to report real URLs instead of button labels.
type ListingCleaner struct {
	// Tags removed wholesale
	removeTags []string
	// Attributes preserved on remaining elements
	keepAttributes []string
}

// NewListingCleaner creates a cleaner tuned for job boards
func NewListingCleaner() *ListingCleaner {
	return &ListingCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"svg", "path", "g", "defs", "use", "symbol",
			"meta", "link", "base", "picture", "source", "video", "audio",
		},
		keepAttributes: []string{
			"href", "class", "id", "datetime", "data-testid", "data-test",
			"data-qa", "aria-label", "title",
		},
	}
}

var htmlTagPattern = regexp.MustCompile(`(?i)<(!doctype|html|body|div|a|ul|li|section|article)\b`)

// PrepareContent reduces fetched page content before it is sent to the
// model. HTML is cleaned down to listing markup; markdown and plain text
// (what headless scrape engines return) only get whitespace normalization.
func (lc *ListingCleaner) PrepareContent(content string) (string, error) {
	if htmlTagPattern.MatchString(content) {
		return lc.cleanHTML(content)
	}
	return collapseWhitespace(content), nil
}

func (lc *ListingCleaner) cleanHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range lc.removeTags {
		doc.Find(tag).Remove()
	}

	lc.cleanAttributes(doc)
	lc.removeEmptyElements(doc)

	body := doc.Find("body")
	var cleaned string
	if body.Length() > 0 {
		cleaned, err = body.Html()
	} else {
		cleaned, err = doc.Html()
	}
	if err != nil {
		return "", err
	}

	// Comments survive goquery, strip them by pattern
	cleaned = regexp.MustCompile(`<!--[\s\S]*?-->`).ReplaceAllString(cleaned, "")

	return collapseWhitespace(cleaned), nil
}

// cleanAttributes drops everything except the attributes the extraction
// prompt relies on
func (lc *ListingCleaner) cleanAttributes(doc *goquery.Document) {
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		for _, attr := range s.Nodes[0].Attr {
			keep := false
			for _, keepAttr := range lc.keepAttributes {
				if attr.Key == keepAttr {
					keep = true
					break
				}
			}
			if !keep {
				s.RemoveAttr(attr.Key)
			}
		}
	})
}

// removeEmptyElements drops elements with no text and no children
func (lc *ListingCleaner) removeEmptyElements(doc *goquery.Document) {
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Children().Length() == 0 {
			// Anchors may carry nothing but an href worth keeping
			if goquery.NodeName(s) == "a" {
				if _, ok := s.Attr("href"); ok {
					return
				}
			}
			s.Remove()
		}
	})
}

var (
	runsOfSpaces   = regexp.MustCompile(`[ \t]+`)
	runsOfNewlines = regexp.MustCompile(`\n{3,}`)
)

func collapseWhitespace(text string) string {
	text = runsOfSpaces.ReplaceAllString(text, " ")
	text = runsOfNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// EstimateTokens returns the approximate token count for cleaned content
func (lc *ListingCleaner) EstimateTokens(text string) int {
	// Rough estimation: ~4 characters per token
	return len(text) / 4
}
