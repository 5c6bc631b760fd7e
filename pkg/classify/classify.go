// Package classify assigns categories to pages and derives short text
// summaries, entities and keywords without any model.
package classify

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

var (
	socialDomains  = []string{"facebook.com", "twitter.com", "x.com", "instagram.com", "linkedin.com", "tiktok.com", "reddit.com"}
	adultWords     = []string{"xxx", "porn", "adult", "nsfw", "onlyfans", "sex"}
	documentSuffix = []string{".pdf", ".doc", ".docx"}
	imageSuffix    = []string{".jpg", ".png", ".gif"}
	videoSuffix    = []string{".mp4", ".avi"}
)

// Category applies the keyword rule table to a page. Rules are checked in
// order and the first that fires wins.
func Category(url, title, text string) result.Category {
	u := strings.ToLower(url)
	title = strings.ToLower(title)
	text = strings.ToLower(text)

	host := strings.ToLower(result.Domain(url))
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return result.CategorySocial
		}
	}

	switch {
	case containsAny(u, "forum", "board") || strings.Contains(title, "forum") ||
		containsAny(text, "posted by", "thread"):
		return result.CategoryForum
	case containsAny(u, "archive.org", "archive.is", "archive", "cached"):
		return result.CategoryArchive
	case containsAny(u, adultWords...) || containsAny(title, adultWords...):
		return result.CategoryAdult
	case hasSuffix(u, documentSuffix...) || containsAny(u, "document", "/docs/"):
		return result.CategoryDocument
	case hasSuffix(u, imageSuffix...) || containsAny(u, "images", "photos"):
		return result.CategoryImage
	case containsAny(u, "youtube.com", "vimeo.com", "video") || hasSuffix(u, videoSuffix...):
		return result.CategoryVideo
	default:
		return result.CategoryWeb
	}
}

var labels = map[result.Category]string{
	result.CategoryWeb:      "Web",
	result.CategoryImage:    "Image",
	result.CategoryVideo:    "Video",
	result.CategorySocial:   "Social Media",
	result.CategoryForum:    "Forum",
	result.CategoryArchive:  "Archive",
	result.CategoryAdult:    "Adult Content",
	result.CategoryDocument: "Document",
	result.CategoryProfile:  "Profile",
	result.CategoryUnknown:  "Unknown",
}

// Label returns the display name of c.
func Label(c result.Category) string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

const (
	summarySentences = 3
	summaryMax       = 300
	maxEntities      = 20
)

// Summarize returns the first three sentences of text, shortened to 300
// characters and terminated with a period.
func Summarize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var sentences []string
	for _, s := range strings.FieldsFunc(text, isSentenceEnd) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
			if len(sentences) == summarySentences {
				break
			}
		}
	}
	summary := strings.Join(sentences, ". ")
	if r := []rune(summary); len(r) > summaryMax {
		summary = string(r[:summaryMax-3]) + "..."
	}
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary
}

func isSentenceEnd(r rune) bool { return r == '.' || r == '!' || r == '?' }

// Entities returns capitalized words that do not start a sentence, in order
// of first appearance. Words are reduced to letters and hyphens and must be
// longer than two characters.
func Entities(text string) []string {
	var out []string
	seen := map[string]bool{}
	start := true
	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		ends := strings.ContainsFunc(word, isSentenceEnd)
		cleaned := []rune(strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || r == '-' {
				return r
			}
			return -1
		}, word))
		if len(cleaned) == 0 {
			if ends {
				start = true
			}
			continue
		}
		if !start && unicode.IsUpper(cleaned[0]) && len(cleaned) > 2 {
			if e := string(cleaned); !seen[e] {
				seen[e] = true
				out = append(out, e)
				if len(out) == maxEntities {
					break
				}
			}
		}
		start = ends
	}
	return out
}

// Keywords returns up to n of the most frequent lowercase words longer than
// three characters. Ties keep first-appearance order.
func Keywords(text string, n int) []string {
	type count struct {
		word  string
		n     int
		first int
	}
	counts := map[string]*count{}
	for i, w := range strings.FieldsFunc(strings.ToLower(text), isWordSeparator) {
		if len([]rune(w)) <= 3 {
			continue
		}
		if c, ok := counts[w]; ok {
			c.n++
			continue
		}
		counts[w] = &count{word: w, n: 1, first: i}
	}
	all := make([]*count, 0, len(counts))
	for _, c := range counts {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b *count) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})
	out := make([]string, 0, min(n, len(all)))
	for _, c := range all[:min(n, len(all))] {
		out = append(out, c.word)
	}
	return out
}

func isWordSeparator(r rune) bool {
	switch r {
	case ' ', '.', ',', '!', '?', ';', ':', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}
