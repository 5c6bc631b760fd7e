package scanner

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/sleuth/pkg/classify"
	"github.com/codeGROOVE-dev/sleuth/pkg/fuzzy"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/score"
)

const markerKeywords = 10

// EnrichResults enriches every result in place, at most the configured
// number at a time, and returns the same slice. A result whose enrichment
// panics is logged and kept as far as it got. Name queries are matched
// with their spelling variants too.
func (s *Scanner) EnrichResults(ctx context.Context, results []*result.SearchResult, query string) []*result.SearchResult {
	m := s.matcher.Scope()
	if !IsURL(query) {
		m.Variations(query)
	}
	return s.enrichAll(ctx, m, results, query)
}

func (s *Scanner) enrichAll(ctx context.Context, m *fuzzy.Matcher, results []*result.SearchResult, query string) []*result.SearchResult {
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, r := range results {
		if r == nil {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			s.enrich(ctx, m, r, query)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // enrich never returns errors
	return results
}

func (s *Scanner) enrich(ctx context.Context, m *fuzzy.Matcher, r *result.SearchResult, query string) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "enrichment failed", "id", r.ID, "url", r.URL, "panic", p)
		}
	}()

	text := r.Title + " " + r.Snippet + " " + r.ExtractedText
	r.FuzzyMatch = m.Match(query, text)

	if r.HTMLContent != "" {
		r.AccountInfo = s.accounts.Extract(r.HTMLContent, r.URL, r.Domain)
		if r.AccountInfo == nil && s.agent.Available() {
			a, err := s.agent.ExtractAccountData(ctx, r.HTMLContent, r.URL)
			if err != nil {
				s.logger.WarnContext(ctx, "agent account extraction failed", "url", r.URL, "error", err)
			}
			r.AccountInfo = a
		}
		if r.AccountInfo != nil && s.agent.Available() {
			misuse, reason, err := s.agent.DetectIdentityMisuse(ctx, query, r.AccountInfo, r.Snippet)
			if err != nil {
				s.logger.WarnContext(ctx, "agent misuse check failed", "url", r.URL, "error", err)
			} else {
				r.AccountInfo.IsPotentialMisuse = misuse
				r.AccountInfo.MisuseReason = reason
			}
		}
	}

	if r.ExtractedText != "" {
		r.Summary = s.summarize(ctx, r)
	}

	r.Entities = classify.Entities(text)
	r.IdentityMarkers = s.identityMarkers(r, query)
	r.CategoryPrediction = classify.Label(classify.Category(r.URL, r.Title, r.ExtractedText))
	r.RelevanceScore = score.Relevance(r, s.now())

	if r.Category == result.CategorySocial || r.Category == result.CategoryProfile {
		fake := score.IsFakeProfile(r)
		r.IsFakeProfile = &fake
	}

	s.logger.DebugContext(ctx, "enriched result", "id", r.ID, "fuzzy", fuzzyScore(r.FuzzyMatch), "account", r.AccountInfo != nil)
}

func (s *Scanner) summarize(ctx context.Context, r *result.SearchResult) string {
	if s.agent.Available() {
		summary, err := s.agent.AnalyzeContentContext(ctx, r.Title, r.Snippet, r.ExtractedText)
		if err == nil && summary != "" {
			return summary
		}
		s.logger.WarnContext(ctx, "agent analysis failed, using local summary", "url", r.URL, "error", err)
	}
	return classify.Summarize(r.ExtractedText)
}

// identityMarkers collects account identifiers plus the entities and
// frequent words that resemble the query.
func (s *Scanner) identityMarkers(r *result.SearchResult, query string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			return
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}

	if a := r.AccountInfo; a != nil {
		add(a.Username)
		add(a.Email)
		add(a.CustomFields["phone"])
	}
	lq := strings.ToLower(query)
	candidates := append(classify.Keywords(r.ExtractedText, markerKeywords), r.Entities...)
	for _, c := range candidates {
		if fuzzy.PartialRatio(strings.ToLower(c), lq) >= s.matcher.MinScore() {
			add(c)
		}
	}
	return out
}

func fuzzyScore(m *result.FuzzyMatchInfo) int {
	if m == nil {
		return 0
	}
	return m.SimilarityScore
}
