package scanner

import (
	"slices"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// Apply returns the results that pass every check enabled in f, keeping order.
func Apply(results []*result.SearchResult, f *result.Filter) []*result.SearchResult {
	if f == nil {
		return results
	}
	out := make([]*result.SearchResult, 0, len(results))
	for _, r := range results {
		if r != nil && keep(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func keep(r *result.SearchResult, f *result.Filter) bool {
	if f.HideAdult && r.Category == result.CategoryAdult {
		return false
	}
	if f.HideDuplicates && r.IsDuplicate {
		return false
	}
	if f.MinConfidence > 0 && r.ConfidenceScore < f.MinConfidence {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, r.Category) {
		return false
	}
	if len(f.AccessStatuses) > 0 && !slices.Contains(f.AccessStatuses, r.AccessStatus) {
		return false
	}
	domain := strings.ToLower(r.Domain)
	if len(f.IncludeDomains) > 0 && !matchesAny(domain, f.IncludeDomains) {
		return false
	}
	if matchesAny(domain, f.ExcludeDomains) {
		return false
	}
	if f.From != nil && r.FoundAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.FoundAt.After(*f.To) {
		return false
	}
	return true
}

func matchesAny(domain string, patterns []string) bool {
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" && strings.Contains(domain, p) {
			return true
		}
	}
	return false
}
