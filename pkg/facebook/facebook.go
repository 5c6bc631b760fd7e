// Package facebook extracts account data from Facebook profile pages.
package facebook

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "facebook"

// Extractor implements account.Strategy for Facebook.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var usernamePattern = regexp.MustCompile(`(?i)facebook\.com/([^/?#]+)`)

// nonProfiles are first path segments that never name an account.
var nonProfiles = map[string]bool{
	"sharer": true, "sharer.php": true, "share": true, "dialog": true, "login": true,
	"help": true, "policies": true, "events": true, "groups": true, "pages": true,
	"watch": true, "marketplace": true, "gaming": true, "business": true, "ads": true,
	"privacy": true, "legal": true, "about": true, "settings": true, "messenger": true,
	"notes": true, "hashtag": true, "profile.php": true, "index.php": true,
}

// Match returns true if the URL looks like a Facebook profile URL.
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

// Extract reads a Facebook page. It returns nil unless a username or a
// display name was found.
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
	if a.Username == "" && a.DisplayName == "" {
		return nil
	}
	return a
}
