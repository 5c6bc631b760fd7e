// Package linkedin extracts account data from LinkedIn profile pages.
package linkedin

import (
	"html"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "linkedin"

// Extractor implements account.Strategy for LinkedIn.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var (
	slugPattern = regexp.MustCompile(`(?i)linkedin\.com/in/([^/?#]+)`)
	// locationPattern finds an inline span naming one of the supported countries.
	locationPattern = regexp.MustCompile(`<span[^>]*>([^<]+(?:Germany|Deutschland|Austria|Switzerland)[^<]*)</span>`)
)

// Match returns true if the URL is a LinkedIn member profile URL.
func Match(urlStr string) bool {
	return extractUsername(urlStr) != ""
}

func extractUsername(urlStr string) string {
	if m := slugPattern.FindStringSubmatch(urlStr); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Extract reads a LinkedIn page. LinkedIn pages need a display name to be
// useful; without one nil is returned.
func Extract(markup, url string) *result.AccountData {
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		return nil
	}
	a := &result.AccountData{
		ProfileURL:  url,
		Username:    extractUsername(url),
		DisplayName: htmlutil.MetaContent(doc, "og:title"),
		Bio:         htmlutil.MetaContent(doc, "og:description"),
		AvatarURL:   htmlutil.MetaContent(doc, "og:image"),
	}
	if a.DisplayName == "" {
		return nil
	}
	if m := locationPattern.FindStringSubmatch(markup); len(m) > 1 {
		a.Location = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	return a
}
