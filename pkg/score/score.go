// Package score computes confidence, relevance and fake-profile signals for results.
package score

import (
	"strings"
	"time"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

var (
	trustedDomains  = []string{"linkedin.com", "facebook.com", "twitter.com", "github.com"}
	genericTitles   = []string{"profile", "user", "account", "member"}
	stockPhotoWords = []string{"stock", "placeholder", "default", "avatar"}
)

// Confidence estimates how likely r is a hit for term at discovery time.
func Confidence(r *result.SearchResult, term string) float64 {
	s := 0.5
	lowerTerm := strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Title), lowerTerm) {
		s += 0.3
	}
	if strings.Contains(strings.ToLower(r.Snippet), lowerTerm) {
		s += 0.2
	}
	s += min(float64(len(r.IdentityMarkers))*0.05, 0.3)
	for _, d := range trustedDomains {
		if strings.Contains(r.Domain, d) {
			s += 0.1
			break
		}
	}
	return min(s, 1.0)
}

// Relevance ranks an enriched result. The intermediate sum may leave [0,1];
// it is clamped once at the end.
func Relevance(r *result.SearchResult, now time.Time) float64 {
	s := 0.5
	s += r.ConfidenceScore * 0.3
	if r.FuzzyMatch != nil {
		s += float64(r.FuzzyMatch.SimilarityScore) / 100 * 0.2
	}
	if n := len(r.IdentityMarkers); n > 0 {
		s += min(float64(n)*0.1, 0.3)
	}
	if r.AccountInfo != nil {
		s += 0.15
		if r.AccountInfo.Email != "" || r.AccountInfo.Username != "" {
			s += 0.1
		}
	}
	age := now.Sub(r.FoundAt)
	switch {
	case age < 30*24*time.Hour:
		s += 0.1
	case age > 365*24*time.Hour:
		s -= 0.1
	}
	if r.Category == result.CategoryProfile || r.Category == result.CategorySocial {
		s += 0.1
	}
	return max(0, min(1, s))
}

// IsFakeProfile reports whether at least two suspicious indicators are present.
// Callers only evaluate it for Social and Profile results.
func IsFakeProfile(r *result.SearchResult) bool {
	n := 0
	if strings.TrimSpace(r.ExtractedText) == "" || len(r.ExtractedText) < 100 {
		n++
	}
	title := strings.ToLower(r.Title)
	for _, w := range genericTitles {
		if strings.Contains(title, w) {
			n++
			break
		}
	}
	if len(r.Metadata) < 2 {
		n++
	}
	if hasStockPhoto(r.MediaLinks) {
		n++
	}
	return n >= 2
}

func hasStockPhoto(links []string) bool {
	for _, l := range links {
		lower := strings.ToLower(l)
		for _, w := range stockPhotoWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}
