// Package htmlutil provides HTML processing utilities shared by the extractors.
package htmlutil

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// StripTags removes HTML tags and returns plain text.
func StripTags(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	content := tagPattern.ReplaceAllString(htmlContent, " ")
	content = html.UnescapeString(content)
	content = multiSpacePattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// CollapseSpace trims s and folds every whitespace run into one space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}

// JSONLDBlocks returns the bodies of every application/ld+json script block.
func JSONLDBlocks(htmlContent string) []string {
	var out []string
	for _, m := range jsonLDPattern.FindAllStringSubmatch(htmlContent, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			out = append(out, body)
		}
	}
	return out
}

// FirstEmail returns the first email address found anywhere in s.
func FirstEmail(s string) string {
	return emailPattern.FindString(s)
}

// ParseCount turns a displayed count such as "12,345", "1.2k" or "3M" into an int.
func ParseCount(s string) (int, bool) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	if s == "" || strings.Trim(s, "0123456789.") != "" || strings.Count(s, ".") > 1 {
		return 0, false
	}
	if mult == 1 && strings.Contains(s, ".") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(f * mult)), true
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
	jsonLDPattern     = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// IsNotFound detects common "404 Not Found" or "Page not found" patterns in page text.
func IsNotFound(text string) bool {
	return containsAny(text, []string{
		"404 not found",
		"page not found",
		"error 404",
		"user not found",
		"profile not found",
		"this account has been suspended",
		"account not found",
		"this account doesn't exist",
		"this page isn't available",
		"sorry, this page isn't available",
		"this content isn't available",
		"couldn't find this account",
	})
}

// IsLoginWall detects pages that only render a sign-in prompt.
func IsLoginWall(text string) bool {
	return containsAny(text, []string{
		"log in to continue",
		"login to continue",
		"sign in to continue",
		"you must log in",
		"you must be logged in",
		"please log in to see",
		"join to view",
		"sign in to view",
	})
}

// IsPaywall detects subscription walls.
func IsPaywall(text string) bool {
	return containsAny(text, []string{
		"subscribe to continue reading",
		"subscribers only",
		"to continue reading, subscribe",
		"this article is for subscribers",
		"start your free trial to read",
	})
}

func containsAny(text string, patterns []string) bool {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
