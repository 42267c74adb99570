// Package dedupe derives stable identities for job postings and classifies
// extraction candidates as new or already seen.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"jobradar/pkg/models"
)

// Query parameters that vary per visit without changing the posting they
// point at. They are stripped before hashing so tracking variants of the
// same URL collapse to one key.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"mc_cid": true,
	"mc_eid": true,
	"ref":    true,
	"source": true,
	"utm":    true,
}

func isTrackingParam(name string) bool {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "utm_") {
		return true
	}
	return trackingParams[name]
}

// NormalizeURL resolves rawURL against baseURL when relative and produces a
// canonical form: lowercased, fragment removed, tracking parameters stripped
// and the trailing slash trimmed. Two normalized URLs compare equal exactly
// when they identify the same posting.
func NormalizeURL(rawURL, baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	if !u.IsAbs() && baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return "", err
		}
		u = base.ResolveReference(u)
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if isTrackingParam(name) {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}

	normalized := u.String()
	if u.Path != "/" {
		normalized = strings.TrimRight(normalized, "/")
	}

	return strings.ToLower(normalized), nil
}

// Key derives the deduplication key for a posting: the first 32 hex
// characters of SHA-256 over the target identifier and the normalized URL.
// Scoping by target keeps identical postings at different companies apart.
func Key(targetID, normalizedURL string) string {
	sum := sha256.Sum256([]byte(targetID + "|" + normalizedURL))
	return hex.EncodeToString(sum[:])[:32]
}

// Match pairs a candidate with its deduplication key. The candidate's URL is
// rewritten to its normalized absolute form.
type Match struct {
	Candidate models.Candidate
	Key       string
}

// Result is the outcome of partitioning one target's candidate batch.
type Result struct {
	New        []Match
	Duplicates int // candidates already present in the store
	IntraBatch int // repeated keys within the same batch, first wins
	Dropped    int // candidates without a resolvable URL
}

// Partition classifies candidates against the set of existing keys for a
// target. Candidates whose URL cannot be parsed are dropped; a key seen
// twice within the batch keeps only its first candidate.
func Partition(targetID, baseURL string, candidates []models.Candidate, existing map[string]struct{}) Result {
	var res Result
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if c.URL == "" {
			res.Dropped++
			continue
		}

		normalized, err := NormalizeURL(c.URL, baseURL)
		if err != nil || normalized == "" {
			res.Dropped++
			continue
		}

		key := Key(targetID, normalized)
		if _, ok := seen[key]; ok {
			res.IntraBatch++
			continue
		}
		seen[key] = struct{}{}

		if _, ok := existing[key]; ok {
			res.Duplicates++
			continue
		}

		c.URL = normalized
		res.New = append(res.New, Match{Candidate: c, Key: key})
	}

	return res
}
