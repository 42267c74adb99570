package processors

import (
	"strings"
	"testing"
)

func TestPrepareContentKeepsHrefs(t *testing.T) {
	html := `<html><head><script>track()</script><style>.x{}</style></head>
<body>
<div class="job-card" onclick="nav()">
  <a href="/careers/swe-123" target="_blank" rel="noopener">Senior Software Engineer</a>
  <span style="color:red">San Francisco, CA</span>
</div>
</body></html>`

	lc := NewListingCleaner()
	got, err := lc.PrepareContent(html)
	if err != nil {
		t.Fatalf("PrepareContent() error: %v", err)
	}

	if !strings.Contains(got, `href="/careers/swe-123"`) {
		t.Errorf("href was stripped: %s", got)
	}
	if strings.Contains(got, "track()") || strings.Contains(got, ".x{}") {
		t.Errorf("script/style content survived: %s", got)
	}
	for _, attr := range []string{"onclick", "target", "rel", "style="} {
		if strings.Contains(got, attr) {
			t.Errorf("attribute %q survived: %s", attr, got)
		}
	}
	if !strings.Contains(got, "Senior Software Engineer") {
		t.Errorf("listing text lost: %s", got)
	}
}

func TestPrepareContentPassesMarkdownThrough(t *testing.T) {
	md := "## Open Roles\n\n- [Backend Engineer](/jobs/1)    Remote\n\n\n\n- [SRE](/jobs/2)"

	lc := NewListingCleaner()
	got, err := lc.PrepareContent(md)
	if err != nil {
		t.Fatalf("PrepareContent() error: %v", err)
	}

	if !strings.Contains(got, "[Backend Engineer](/jobs/1)") {
		t.Errorf("markdown link mangled: %s", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("newline runs not collapsed: %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	lc := NewListingCleaner()
	if got := lc.EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens(400 chars) = %d, want 100", got)
	}
	if got := lc.EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
}

func TestPrepareContentStripsComments(t *testing.T) {
	html := `<body><!-- hiring freeze banner --><div class="job"><a href="/j/1">Engineer</a></div></body>`

	lc := NewListingCleaner()
	got, err := lc.PrepareContent(html)
	if err != nil {
		t.Fatalf("PrepareContent() error: %v", err)
	}
	if strings.Contains(got, "hiring freeze") {
		t.Errorf("comment survived: %s", got)
	}
}
