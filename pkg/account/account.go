// Package account turns fetched pages into structured account data.
//
// Known platforms are handled by their own strategy; everything else falls
// through to a generic extractor that reads common meta tags.
package account

import (
	"log/slog"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/facebook"
	"github.com/codeGROOVE-dev/sleuth/pkg/github"
	"github.com/codeGROOVE-dev/sleuth/pkg/instagram"
	"github.com/codeGROOVE-dev/sleuth/pkg/linkedin"
	"github.com/codeGROOVE-dev/sleuth/pkg/reddit"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/tiktok"
	"github.com/codeGROOVE-dev/sleuth/pkg/twitter"
)

// Strategy extracts account data from a single platform's pages. Match
// reports whether url is an account page the strategy understands.
type Strategy interface {
	Name() string
	Match(url string) bool
	Extract(markup, url string) *result.AccountData
}

type entry struct {
	domain   string
	strategy Strategy
}

// Extractor dispatches pages to platform strategies.
type Extractor struct {
	logger  *slog.Logger
	region  string
	entries []entry
}

// Option configures an Extractor.
type Option func(*config)

type config struct {
	logger *slog.Logger
	region string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithPhoneRegion sets the default region used to parse phone numbers
// written without a country code, e.g. "US" or "DE".
func WithPhoneRegion(region string) Option {
	return func(c *config) { c.region = region }
}

// New creates an Extractor with the built-in platform table.
func New(opts ...Option) *Extractor {
	cfg := &config{logger: slog.Default(), region: "US"}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Extractor{
		logger: cfg.logger,
		region: cfg.region,
		entries: []entry{
			{"facebook.com", facebook.Extractor{}},
			{"twitter.com", twitter.Extractor{}},
			{"x.com", twitter.Extractor{}},
			{"instagram.com", instagram.Extractor{}},
			{"linkedin.com", linkedin.Extractor{}},
			{"github.com", github.Extractor{}},
			{"reddit.com", reddit.Extractor{}},
			{"tiktok.com", tiktok.Extractor{}},
		},
	}
}

// Extract returns account data for the page at url on domain, or nil when
// nothing identifying was found. The first platform strategy whose domain
// matches, which accepts url, and which returns data wins; otherwise the
// generic extractor runs.
func (e *Extractor) Extract(markup, url, domain string) *result.AccountData {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	host := strings.ToLower(domain)
	for _, en := range e.entries {
		if !hostMatches(host, en.domain) {
			continue
		}
		if !en.strategy.Match(url) {
			e.logger.Debug("not an account page", "platform", en.strategy.Name(), "url", url)
			continue
		}
		if a := en.strategy.Extract(markup, url); a != nil {
			e.logger.Debug("account extracted", "platform", en.strategy.Name(), "url", url, "username", a.Username)
			return a
		}
	}
	return Generic(markup, url, e.region)
}

// hostMatches reports whether host is domain or one of its subdomains.
func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
