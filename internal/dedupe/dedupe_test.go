package dedupe

import (
	"testing"

	"jobradar/pkg/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{
			name: "relative path resolved against base",
			raw:  "/jobs/123",
			base: "https://co.example/careers",
			want: "https://co.example/jobs/123",
		},
		{
			name: "tracking query stripped",
			raw:  "https://co.example/jobs/1?utm=x",
			want: "https://co.example/jobs/1",
		},
		{
			name: "utm prefix params stripped, real params kept",
			raw:  "https://co.example/jobs/1?utm_source=feed&gh_jid=42",
			want: "https://co.example/jobs/1?gh_jid=42",
		},
		{
			name: "host case normalized",
			raw:  "https://CO.Example/Jobs/1",
			want: "https://co.example/jobs/1",
		},
		{
			name: "fragment removed",
			raw:  "https://co.example/jobs/1#apply",
			want: "https://co.example/jobs/1",
		},
		{
			name: "trailing slash trimmed",
			raw:  "https://co.example/jobs/1/",
			want: "https://co.example/jobs/1",
		},
		{
			name: "root path keeps slash",
			raw:  "https://co.example/",
			want: "https://co.example/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw, tt.base)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestKeyIsTargetScoped(t *testing.T) {
	url := "https://co.example/jobs/1"
	if Key("t1", url) == Key("t2", url) {
		t.Error("same URL under different targets must produce different keys")
	}
	if Key("t1", url) != Key("t1", url) {
		t.Error("key derivation must be deterministic")
	}
	if len(Key("t1", url)) != 32 {
		t.Errorf("key length = %d, want 32", len(Key("t1", url)))
	}
}

func TestPartitionTrackingVariantCollapses(t *testing.T) {
	// Two candidates that normalize to the same URL: exactly one survives.
	candidates := []models.Candidate{
		{Title: "SWE", URL: "https://co.example/jobs/1"},
		{Title: "SWE", URL: "https://co.example/jobs/1?utm=x"},
	}

	res := Partition("t1", "https://co.example/careers", candidates, nil)

	if len(res.New) != 1 {
		t.Fatalf("expected 1 new candidate, got %d", len(res.New))
	}
	if res.IntraBatch != 1 {
		t.Errorf("expected 1 intra-batch duplicate, got %d", res.IntraBatch)
	}
	if res.New[0].Candidate.URL != "https://co.example/jobs/1" {
		t.Errorf("candidate URL not normalized: %q", res.New[0].Candidate.URL)
	}
}

func TestPartitionAgainstExistingKeys(t *testing.T) {
	stored, err := NormalizeURL("https://co.example/jobs/1", "")
	if err != nil {
		t.Fatal(err)
	}
	existing := map[string]struct{}{
		Key("t1", stored): {},
	}

	candidates := []models.Candidate{
		{Title: "SWE", URL: "HTTPS://CO.EXAMPLE/jobs/1?utm_source=li"}, // variant of stored
		{Title: "Data Engineer", URL: "https://co.example/jobs/2"},
	}

	res := Partition("t1", "https://co.example/careers", candidates, existing)

	if res.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", res.Duplicates)
	}
	if len(res.New) != 1 || res.New[0].Candidate.Title != "Data Engineer" {
		t.Fatalf("expected only the unseen posting to be new, got %+v", res.New)
	}
}

func TestPartitionDropsCandidatesWithoutURL(t *testing.T) {
	candidates := []models.Candidate{
		{Title: "Ghost posting"},
		{Title: "Broken", URL: "://not-a-url"},
		{Title: "Real", URL: "/jobs/3"},
	}

	res := Partition("t1", "https://co.example/careers", candidates, nil)

	if res.Dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", res.Dropped)
	}
	if len(res.New) != 1 || res.New[0].Candidate.Title != "Real" {
		t.Fatalf("expected one new candidate, got %+v", res.New)
	}
}

func TestPartitionNoCrossTargetInterference(t *testing.T) {
	url := "https://boards.example/acme/jobs/9"
	existing := map[string]struct{}{
		Key("other-target", url): {},
	}

	res := Partition("t1", "", []models.Candidate{{Title: "SWE", URL: url}}, existing)

	if len(res.New) != 1 {
		t.Fatalf("posting stored for another target must still be new, got %+v", res)
	}
}
