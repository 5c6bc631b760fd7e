// Package dedup finds near-identical search results.
package dedup

import (
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// DefaultThreshold is the similarity at or above which two results are duplicates.
const DefaultThreshold = 0.8

// Pair identifies two results by index, I < J.
type Pair struct {
	I, J       int
	Similarity float64
}

// Similarity returns the Jaccard similarity of the word sets of a and b.
// Words are lowercased and only those longer than two characters count.
// Two texts without any such words are considered identical.
func Similarity(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 1.0
	}
	inter := 0
	for w := range wa {
		if wb[w] {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	return float64(inter) / float64(union)
}

func words(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), isSeparator) {
		if len(w) > 2 {
			out[w] = true
		}
	}
	return out
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '.', ',', '!', '?', ';', ':', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func text(r *result.SearchResult) string {
	return r.Title + " " + r.Snippet
}

// Find compares the title and snippet of every pair of results and returns
// the pairs whose similarity is at least threshold.
func Find(results []*result.SearchResult, threshold float64) []Pair {
	var pairs []Pair
	for i := range results {
		if results[i] == nil {
			continue
		}
		for j := i + 1; j < len(results); j++ {
			if results[j] == nil {
				continue
			}
			if s := Similarity(text(results[i]), text(results[j])); s >= threshold {
				pairs = append(pairs, Pair{I: i, J: j, Similarity: s})
			}
		}
	}
	return pairs
}

// Mark flags the later member of every duplicate pair and returns how many
// results were newly flagged. The earlier member stays canonical.
func Mark(results []*result.SearchResult, threshold float64) int {
	n := 0
	for _, p := range Find(results, threshold) {
		if !results[p.J].IsDuplicate {
			results[p.J].IsDuplicate = true
			n++
		}
	}
	return n
}
