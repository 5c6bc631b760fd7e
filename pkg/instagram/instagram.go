// Package instagram extracts account data from Instagram profile pages.
package instagram

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

const platform = "instagram"

// Extractor implements account.Strategy for Instagram.
type Extractor struct{}

// Name returns the platform name.
func (Extractor) Name() string { return platform }

// Extract implements account.Strategy.
func (Extractor) Extract(markup, url string) *result.AccountData { return Extract(markup, url) }

// Match implements account.Strategy.
func (Extractor) Match(url string) bool { return Match(url) }

var (
	usernamePattern = regexp.MustCompile(`(?i)instagram\.com/([a-zA-Z0-9_.]+)`)
	followerPattern = regexp.MustCompile(`"follower":\s*(\d+)`)
)

// Skip non-profile paths.
var systemPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "stories": true,
	"explore": true, "direct": true, "accounts": true,
	"about": true, "legal": true, "privacy": true,
	"terms": true, "api": true, "developer": true,
}

// Match returns true if the URL is an Instagram profile URL.
func Match(urlStr string) bool {
	if !strings.Contains(strings.ToLower(urlStr), "instagram.com/") {
		return false
	}
	return extractUsername(urlStr) != ""
}

func extractUsername(urlStr string) string {
	m := usernamePattern.FindStringSubmatch(urlStr)
	if len(m) < 2 || systemPaths[strings.ToLower(m[1])] {
		return ""
	}
	return m[1]
}

// Extract reads an Instagram profile page. Follower counts come from embedded
// structured-data blocks; the last block that carries one wins.
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
	for _, block := range htmlutil.JSONLDBlocks(markup) {
		m := followerPattern.FindStringSubmatch(block)
		if len(m) < 2 {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.FollowerCount = result.IntPtr(n)
		}
	}
	return a
}
