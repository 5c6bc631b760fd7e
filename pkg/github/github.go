// Package github extracts account data from GitHub profile pages.
package github

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "github"

// Extractor implements account.Strategy for GitHub.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var usernamePattern = regexp.MustCompile(`(?i)github\.com/([^/?#]+)`)

// Skip known non-profile paths.
var nonProfiles = map[string]bool{
	"features": true, "security": true, "enterprise": true, "team": true,
	"marketplace": true, "sponsors": true, "topics": true, "trending": true,
	"collections": true, "orgs": true, "solutions": true, "resources": true,
	"customer-stories": true, "partners": true, "login": true, "join": true,
	"pricing": true, "about": true, "readme": true, "explore": true,
	"new": true, "settings": true, "notifications": true, "search": true,
}

// Match returns true if the URL points below a GitHub account.
func Match(urlStr string) bool {
	return extractUsername(urlStr) != ""
}

func extractUsername(urlStr string) string {
	m := usernamePattern.FindStringSubmatch(urlStr)
	if len(m) < 2 || nonProfiles[strings.ToLower(m[1])] {
		return ""
	}
	return m[1]
}

// Extract reads a GitHub profile page. The follower count is read from the
// link that points at the followers tab.
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
		Username:    username,
		DisplayName: htmlutil.MetaContent(doc, "og:title"),
		Bio:         htmlutil.MetaContent(doc, "og:description"),
		AvatarURL:   htmlutil.MetaContent(doc, "og:image"),
	}
	if n, ok := htmlutil.ParseCount(htmlutil.SelectText(doc, `a[href*="followers"] span`)); ok {
		a.FollowerCount = result.IntPtr(n)
	}
	if n, ok := htmlutil.ParseCount(htmlutil.SelectText(doc, `a[href*="following"] span`)); ok {
		a.FollowingCount = result.IntPtr(n)
	}
	return a
}
