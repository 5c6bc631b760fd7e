// Package scanner runs an investigation: it turns a URL or a name into a
// list of enriched, scored and filtered search results.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/sleuth/pkg/account"
	"github.com/codeGROOVE-dev/sleuth/pkg/agent"
	"github.com/codeGROOVE-dev/sleuth/pkg/content"
	"github.com/codeGROOVE-dev/sleuth/pkg/classify"
	"github.com/codeGROOVE-dev/sleuth/pkg/dedup"
	"github.com/codeGROOVE-dev/sleuth/pkg/fuzzy"
	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/httpcache"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/score"
	"github.com/codeGROOVE-dev/sleuth/pkg/search"
)

// ErrEmptyQuery is returned by Scan for a blank query.
var ErrEmptyQuery = errors.New("empty query")

const (
	// DefaultConcurrency bounds how many results are enriched at once.
	DefaultConcurrency = 4

	// maxVariantQueries is how many spelling variants are searched besides the term itself.
	maxVariantQueries = 5
)

// Fetcher retrieves the markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Scanner coordinates fetching, searching and enrichment.
type Scanner struct {
	fetcher     Fetcher
	aggregator  *search.Aggregator
	agent       agent.Agent
	accounts    *account.Extractor
	matcher     *fuzzy.Matcher
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
	threshold   float64
}

// Option configures a Scanner.
type Option func(*config)

type config struct {
	fetcher     Fetcher
	aggregator  *search.Aggregator
	agent       agent.Agent
	accounts    *account.Extractor
	matcher     *fuzzy.Matcher
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
	threshold   float64
}

// WithFetcher sets the page fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *config) { c.fetcher = f }
}

// WithAggregator sets the search aggregator used for keyword scans.
func WithAggregator(a *search.Aggregator) Option {
	return func(c *config) { c.aggregator = a }
}

// WithAgent sets the optional language-model agent.
func WithAgent(a agent.Agent) Option {
	return func(c *config) { c.agent = a }
}

// WithAccountExtractor sets the account extractor.
func WithAccountExtractor(e *account.Extractor) Option {
	return func(c *config) { c.accounts = e }
}

// WithMatcher sets the fuzzy matcher.
func WithMatcher(m *fuzzy.Matcher) Option {
	return func(c *config) { c.matcher = m }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithConcurrency bounds parallel enrichment.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithDuplicateThreshold sets the similarity at which results count as duplicates.
func WithDuplicateThreshold(t float64) Option {
	return func(c *config) { c.threshold = t }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates a Scanner. Unset collaborators get working defaults; the
// agent defaults to agent.Null.
func New(opts ...Option) *Scanner {
	cfg := &config{
		logger:      slog.Default(),
		agent:       agent.Null{},
		now:         time.Now,
		concurrency: DefaultConcurrency,
		threshold:   dedup.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.fetcher == nil {
		cfg.fetcher = httpcache.NewFetcher(httpcache.WithLogger(cfg.logger))
	}
	if cfg.aggregator == nil {
		cfg.aggregator = search.NewAggregator(search.WithLogger(cfg.logger))
	}
	if cfg.accounts == nil {
		cfg.accounts = account.New(account.WithLogger(cfg.logger))
	}
	if cfg.matcher == nil {
		cfg.matcher = fuzzy.New(fuzzy.WithLogger(cfg.logger))
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	return &Scanner{
		fetcher:     cfg.fetcher,
		aggregator:  cfg.aggregator,
		agent:       cfg.agent,
		accounts:    cfg.accounts,
		matcher:     cfg.matcher,
		logger:      cfg.logger,
		now:         cfg.now,
		concurrency: cfg.concurrency,
		threshold:   cfg.threshold,
	}
}

// IsURL reports whether query should be analyzed as a single page rather
// than searched for.
func IsURL(query string) bool {
	q := strings.ToLower(query)
	return strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://") || strings.HasPrefix(q, "www.")
}

// Scan analyzes query and returns the enriched results, filtered by filter
// when it is non-nil. Network failures never fail a scan; the only errors
// are a blank query and context cancellation.
func (s *Scanner) Scan(ctx context.Context, query string, filter *result.Filter) ([]*result.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	s.logger.InfoContext(ctx, "scan started", "query", query)
	start := time.Now()

	m := s.matcher.Scope()
	var results []*result.SearchResult
	if IsURL(query) {
		results = []*result.SearchResult{s.analyzeURL(ctx, query)}
	} else {
		results = s.searchKeyword(ctx, m, query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dups := dedup.Mark(results, s.threshold)
	results = s.enrichAll(ctx, m, results, query)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter != nil {
		results = Apply(results, filter)
	}

	s.logger.InfoContext(ctx, "scan completed", "query", query, "results", len(results), "duplicates", dups, "duration", time.Since(start))
	return results, nil
}

// analyzeURL fetches a single page and describes it.
func (s *Scanner) analyzeURL(ctx context.Context, raw string) *result.SearchResult {
	target := raw
	if strings.HasPrefix(strings.ToLower(raw), "www.") {
		target = "https://" + raw
	}

	r := result.New(target)
	r.FoundAt = s.now()
	r.Category = result.CategoryWeb

	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch failed", "url", target, "error", err)
		r.AccessStatus = result.AccessError
		r.Snippet = "Error: " + err.Error()
		return r
	}

	markup := string(body)
	page := content.Extract(markup, target)
	r.HTMLContent = markup
	r.Title = page.Title
	r.ExtractedText = page.Text
	r.MediaLinks = page.Images
	r.OutgoingLinks = page.Links
	r.Metadata = page.Metadata
	r.Category = classify.Category(target, page.Title, page.Text)
	r.AccessStatus = accessStatus(page.Title, page.Text)
	r.ConfidenceScore = 1.0
	return r
}

// shortPage is the longest body text still read for access hints. Longer
// pages are real content that may merely mention "page not found".
const shortPage = 600

// accessStatus refines a successful fetch using what the page says about
// itself: its title always, its body text only when the page is short.
func accessStatus(title, text string) result.AccessStatus {
	hint := title
	if len(text) <= shortPage {
		hint += " " + text
	}
	switch {
	case htmlutil.IsNotFound(hint):
		return result.AccessDeleted
	case htmlutil.IsLoginWall(hint):
		return result.AccessRequiresLogin
	case htmlutil.IsPaywall(hint):
		return result.AccessPaywall
	default:
		return result.AccessFree
	}
}

// searchKeyword queries every source for term, then the primary source for
// the first few spelling variants that differ from it.
func (s *Scanner) searchKeyword(ctx context.Context, m *fuzzy.Matcher, term string) []*result.SearchResult {
	variations := s.variations(ctx, m, term)

	results := s.aggregator.All(ctx, term)

	n := 0
	for _, v := range variations {
		if n == maxVariantQueries || ctx.Err() != nil {
			break
		}
		if strings.EqualFold(v, term) {
			continue
		}
		n++
		s.logger.DebugContext(ctx, "searching variation", "variation", v)
		results = append(results, s.aggregator.Primary(ctx, v)...)
	}

	for _, r := range results {
		r.ConfidenceScore = score.Confidence(r, term)
	}
	s.logger.InfoContext(ctx, "keyword search done", "term", term, "variations", len(variations), "results", len(results))
	return results
}

// variations returns the generated variants of term extended by the agent's
// suggestions. All of them are remembered by m.
func (s *Scanner) variations(ctx context.Context, m *fuzzy.Matcher, term string) []string {
	vars := m.Variations(term)
	if !s.agent.Available() {
		return vars
	}
	extra, err := s.agent.GenerateSearchVariations(ctx, term)
	if err != nil {
		s.logger.WarnContext(ctx, "agent variations failed", "term", term, "error", err)
		return vars
	}
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	m.AddVariations(extra...)
	return vars
}
