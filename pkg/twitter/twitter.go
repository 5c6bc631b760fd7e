// Package twitter extracts account data from Twitter/X profile pages.
package twitter

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "twitter"

// Extractor implements account.Strategy for Twitter/X.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var (
	usernamePattern = regexp.MustCompile(`(?i)\b(?:twitter|x)\.com/([^/?#]+)`)
	followerPattern = regexp.MustCompile(`(\d+(?:,\d+)*)\s*Followers`)
)

// systemPaths are first path segments that belong to the site rather than a user.
var systemPaths = map[string]bool{
	"home": true, "explore": true, "search": true, "i": true, "intent": true,
	"share": true, "hashtag": true, "settings": true, "login": true, "signup": true,
	"notifications": true, "messages": true, "tos": true, "privacy": true,
}

// Match returns true if the URL is a Twitter/X profile URL.
func Match(urlStr string) bool {
	return extractUsername(urlStr) != ""
}

// IsValidUsername validates a Twitter username against platform requirements.
// Twitter usernames must be 1-15 characters and contain only alphanumeric or underscore.
func IsValidUsername(username string) bool {
	if len(username) < 1 || len(username) > 15 {
		return false
	}
	for _, r := range username {
		isLower := r >= 'a' && r <= 'z'
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isUpper && !isDigit && r != '_' {
			return false
		}
	}
	return true
}

func extractUsername(urlStr string) string {
	m := usernamePattern.FindStringSubmatch(urlStr)
	if len(m) < 2 {
		return ""
	}
	name := strings.TrimPrefix(m[1], "@")
	if systemPaths[strings.ToLower(name)] || !IsValidUsername(name) {
		return ""
	}
	return name
}

// Extract reads a Twitter/X profile page. The username is "@"-prefixed;
// nil is returned when the URL names no user.
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
		Username:    "@" + username,
		DisplayName: htmlutil.MetaContent(doc, "og:title"),
		Bio:         htmlutil.MetaContent(doc, "og:description"),
		AvatarURL:   htmlutil.MetaContent(doc, "og:image"),
	}
	if m := followerPattern.FindStringSubmatch(markup); len(m) > 1 {
		if n, ok := htmlutil.ParseCount(m[1]); ok {
			a.FollowerCount = result.IntPtr(n)
		}
	}
	return a
}
