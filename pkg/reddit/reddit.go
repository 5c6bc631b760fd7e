// Package reddit extracts account data from Reddit user pages.
package reddit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "reddit"

// Extractor implements account.Strategy for Reddit.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var (
	usernameRE = regexp.MustCompile(`(?i)reddit\.com/(?:user|u)/([^/?#]+)`)
	karmaRE    = regexp.MustCompile(`(\d+(?:,\d+)*)\s*(?:post|comment)?\s*karma`)
)

// Match returns true if the URL is a Reddit user URL.
func Match(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "reddit.com/user/") ||
		strings.Contains(lower, "reddit.com/u/")
}

func extractUsername(url string) string {
	if m := usernameRE.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Extract reads a Reddit user page. The username is "u/"-prefixed and the
// first karma figure on the page is kept in CustomFields["karma"].
func Extract(markup, url string) *result.AccountData {
	username := extractUsername(url)
	if username == "" {
		return nil
	}
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		return nil
	}
	a := &result.AccountData{
		ProfileURL:  url,
		Username:    "u/" + username,
		DisplayName: htmlutil.MetaContent(doc, "og:title"),
		Bio:         htmlutil.MetaContent(doc, "og:description"),
	}
	if m := karmaRE.FindStringSubmatch(markup); len(m) > 1 {
		if n, ok := htmlutil.ParseCount(m[1]); ok {
			a.CustomFields = map[string]string{"karma": strconv.Itoa(n)}
		}
	}
	return a
}
