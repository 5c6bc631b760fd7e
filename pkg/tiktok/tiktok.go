// Package tiktok extracts account data from TikTok profile pages.
package tiktok

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "tiktok"

// Extractor implements account.Strategy for TikTok.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var usernamePattern = regexp.MustCompile(`(?i)tiktok\.com/@([^/?#]+)`)

// Match returns true if the URL is a TikTok profile URL.
func Match(urlStr string) bool {
	return strings.Contains(strings.ToLower(urlStr), "tiktok.com/@")
}

func extractUsername(urlStr string) string {
	if m := usernamePattern.FindStringSubmatch(urlStr); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Extract reads a TikTok profile page.
func Extract(markup, url string) *result.AccountData {
	username := extractUsername(url)
	if username == "" {
		return nil
	}
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		return nil
	}
	return &result.AccountData{
		ProfileURL:  url,
		Username:    "@" + username,
		DisplayName: htmlutil.MetaContent(doc, "og:title"),
		Bio:         htmlutil.MetaContent(doc, "og:description"),
		AvatarURL:   htmlutil.MetaContent(doc, "og:image"),
	}
}
