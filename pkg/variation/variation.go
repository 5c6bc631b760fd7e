// Package variation generates spelling and formatting variants of a name.
package variation

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// substitution is one entry of the alternate spelling table.
type substitution struct {
	from string
	to   []string
}

// alternates is applied in order; each applicable target produces one variant.
var alternates = []substitution{
	{"ph", []string{"f"}},
	{"f", []string{"ph"}},
	{"c", []string{"k", "s"}},
	{"k", []string{"c"}},
	{"s", []string{"c", "z"}},
	{"z", []string{"s"}},
	{"ei", []string{"ai", "ey"}},
	{"ai", []string{"ei", "ay"}},
	{"y", []string{"i"}},
	{"i", []string{"y"}},
}

var alternatePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(alternates))
	for _, s := range alternates {
		m[s.from] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s.from))
	}
	return m
}()

// set keeps insertion order. Variants are unique ignoring case, except the
// deliberate case forms (lowercase, uppercase, initials) which only need to
// differ exactly.
type set struct {
	folded map[string]bool
	exact  map[string]bool
	list   []string
}

func newSet() *set {
	return &set{folded: map[string]bool{}, exact: map[string]bool{}}
}

func (s *set) add(v string) {
	if v == "" || s.folded[strings.ToLower(v)] {
		return
	}
	s.put(v)
}

func (s *set) addCaseForm(v string) {
	if v == "" || s.exact[v] {
		return
	}
	s.put(v)
}

func (s *set) put(v string) {
	s.folded[strings.ToLower(v)] = true
	s.exact[v] = true
	s.list = append(s.list, v)
}

// Generate returns the variants of name in generation order:
// original, case forms, separator forms, special characters stripped,
// reversed word order, initials, typo variants (transpositions, deletions,
// duplications), then alternate spellings. The result is never bounded;
// callers that need bounded work should slice it.
func Generate(name string) []string {
	if strings.TrimSpace(name) == "" {
		return []string{}
	}

	s := newSet()
	s.add(name)
	s.addCaseForm(strings.ToLower(name))
	s.addCaseForm(strings.ToUpper(name))
	s.add(strings.ReplaceAll(name, " ", ""))
	s.add(strings.ReplaceAll(name, " ", "_"))
	s.add(strings.ReplaceAll(name, " ", "-"))
	s.add(nonAlnum.ReplaceAllString(name, ""))

	words := strings.Fields(name)
	if len(words) > 1 {
		reversed := make([]string, len(words))
		for i, w := range words {
			reversed[len(words)-1-i] = w
		}
		s.add(strings.Join(reversed, " "))
		s.add(strings.Join(reversed, ""))

		var initials strings.Builder
		for _, w := range words {
			initials.WriteRune([]rune(w)[0])
		}
		s.addCaseForm(strings.ToUpper(initials.String()))
		s.addCaseForm(strings.ToLower(initials.String()))
	}

	for _, v := range Typos(name) {
		s.add(v)
	}
	for _, v := range Alternates(name) {
		s.add(v)
	}
	return s.list
}

// Typos returns one transposition per adjacent pair, one deletion per
// position and one duplication per position, without exact duplicates.
func Typos(name string) []string {
	r := []rune(name)
	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for i := 0; i < len(r)-1; i++ {
		c := append([]rune(nil), r...)
		c[i], c[i+1] = c[i+1], c[i]
		add(string(c))
	}
	for i := range r {
		add(string(r[:i]) + string(r[i+1:]))
	}
	for i := range r {
		add(string(r[:i+1]) + string(r[i:]))
	}
	return out
}

// Alternates applies the substitution table case-insensitively, producing one
// variant per applicable substitution with every occurrence replaced.
func Alternates(name string) []string {
	lower := strings.ToLower(name)
	seen := map[string]bool{}
	var out []string
	for _, sub := range alternates {
		if !strings.Contains(lower, sub.from) {
			continue
		}
		re := alternatePatterns[sub.from]
		for _, to := range sub.to {
			v := re.ReplaceAllLiteralString(name, to)
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
