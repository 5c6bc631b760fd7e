// Package fuzzy scores how well a name query matches arbitrary text.
package fuzzy

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/variation"
)

// DefaultMinScore is the lowest partial ratio accepted as a match.
const DefaultMinScore = 70

// Field weights used by DocumentSimilarity.
const (
	titleWeight   = 3
	snippetWeight = 2
	contentWeight = 1
)

// phoneticPairs are applied one at a time to both sides before comparing.
var phoneticPairs = [][2]string{
	{"f", "ph"},
	{"c", "k"},
	{"s", "z"},
	{"ei", "ai"},
	{"y", "i"},
}

// Matcher matches queries against text. It remembers every variation it has
// generated and falls back to them when the query itself does not match, so
// one Matcher should serve one query; Scope derives a fresh one.
// A Matcher is safe for concurrent use.
type Matcher struct {
	logger     *slog.Logger
	known      map[string]bool
	variations []string
	minScore   int
	mu         sync.RWMutex
}

// Option configures a Matcher.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	minScore int
}

// WithMinScore sets the minimum partial ratio (0-100) for a match.
func WithMinScore(score int) Option {
	return func(c *config) { c.minScore = score }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	cfg := &config{logger: slog.Default(), minScore: DefaultMinScore}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Matcher{
		logger:   cfg.logger,
		minScore: max(0, min(100, cfg.minScore)),
		known:    map[string]bool{},
	}
}

// Scope returns a Matcher with the same settings and no remembered variations.
func (m *Matcher) Scope() *Matcher {
	return &Matcher{logger: m.logger, minScore: m.minScore, known: map[string]bool{}}
}

// MinScore returns the configured threshold.
func (m *Matcher) MinScore() int { return m.minScore }

// Variations generates the variants of name and remembers them for later matches.
func (m *Matcher) Variations(name string) []string {
	v := variation.Generate(name)
	m.AddVariations(v...)
	m.logger.Debug("generated variations", "name", name, "count", len(v))
	return v
}

// AddVariations remembers extra variants, such as ones suggested by an agent.
func (m *Matcher) AddVariations(vs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vs {
		if v == "" || m.known[v] {
			continue
		}
		m.known[v] = true
		m.variations = append(m.variations, v)
	}
}

// Known returns a copy of every remembered variation.
func (m *Matcher) Known() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.variations)
}

// Match scores query against text, returning nil when nothing clears the threshold.
func (m *Matcher) Match(query, text string) *result.FuzzyMatchInfo {
	if query == "" || text == "" {
		return nil
	}
	lq, lt := strings.ToLower(query), strings.ToLower(text)

	if strings.Contains(lt, lq) {
		return &result.FuzzyMatchInfo{OriginalQuery: query, MatchedText: text, SimilarityScore: 100, Type: result.MatchExact}
	}
	if strings.EqualFold(query, text) {
		return &result.FuzzyMatchInfo{OriginalQuery: query, MatchedText: text, SimilarityScore: 95, Type: result.MatchCaseInsensitive}
	}

	if score := PartialRatio(lq, lt); score >= m.minScore {
		return &result.FuzzyMatchInfo{
			OriginalQuery:   query,
			MatchedText:     text,
			SimilarityScore: score,
			Type:            classify(query, text, score),
			Variations:      m.Known(),
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.variations {
		if score := PartialRatio(strings.ToLower(v), lt); score >= m.minScore {
			return &result.FuzzyMatchInfo{
				OriginalQuery:   query,
				MatchedText:     text,
				SimilarityScore: score,
				Type:            result.MatchTypoTolerant,
				Variations:      []string{v},
			}
		}
	}
	return nil
}

func classify(query, text string, score int) result.MatchType {
	switch {
	case score == 100:
		return result.MatchExact
	case score >= 90:
		return result.MatchCaseInsensitive
	case score >= 80:
		return result.MatchTypoTolerant
	case isPhonetic(query, text):
		return result.MatchPhonetic
	case isAbbreviation(query, text):
		return result.MatchAbbreviated
	default:
		return result.MatchPartial
	}
}

func isPhonetic(query, text string) bool {
	lq, lt := strings.ToLower(query), strings.ToLower(text)
	for _, p := range phoneticPairs {
		if strings.ReplaceAll(lq, p[0], p[1]) == strings.ReplaceAll(lt, p[0], p[1]) {
			return true
		}
	}
	return false
}

// isAbbreviation reports whether one side spells the initials of the other,
// multi-word side.
func isAbbreviation(query, text string) bool {
	qw, tw := strings.Fields(query), strings.Fields(text)
	if len(tw) > 1 && strings.EqualFold(initials(tw), strings.TrimSpace(query)) {
		return true
	}
	return len(qw) > 1 && strings.EqualFold(strings.TrimSpace(text), initials(qw))
}

func initials(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteRune([]rune(w)[0])
	}
	return b.String()
}

func isWordSep(r rune) bool {
	switch r {
	case ' ', '.', ',', '!', '?', ';', ':', '\n', '\r', '\t':
		return true
	}
	return false
}

func isSentenceSep(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// FindAllMatches matches query against every word and every sentence of text.
// Sentence matches whose text was already matched are dropped. Results are
// ordered by descending score.
func (m *Matcher) FindAllMatches(query, text string) []*result.FuzzyMatchInfo {
	var matches []*result.FuzzyMatchInfo
	seen := map[string]bool{}

	for _, w := range strings.FieldsFunc(text, isWordSep) {
		if strings.TrimSpace(w) == "" {
			continue
		}
		if mi := m.Match(query, w); mi != nil {
			matches = append(matches, mi)
			seen[mi.MatchedText] = true
		}
	}

	for _, s := range strings.FieldsFunc(text, isSentenceSep) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if mi := m.Match(query, s); mi != nil && !seen[mi.MatchedText] {
			matches = append(matches, mi)
			seen[mi.MatchedText] = true
		}
	}

	slices.SortStableFunc(matches, func(a, b *result.FuzzyMatchInfo) int {
		return cmp.Compare(b.SimilarityScore, a.SimilarityScore)
	})
	return matches
}

// DocumentSimilarity weights the best match per field (title x3, snippet x2,
// content x1) and averages over the fields that matched at all.
//
// Only contributing fields are counted, so a title-only match scores up to 300.
func (m *Matcher) DocumentSimilarity(query, title, snippet, content string) int {
	var scores []int
	for _, f := range []struct {
		text   string
		weight int
	}{
		{title, titleWeight},
		{snippet, snippetWeight},
		{content, contentWeight},
	} {
		if best := m.best(query, f.text); best > 0 {
			scores = append(scores, best*f.weight)
		}
	}
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.RoundToEven(float64(sum) / float64(len(scores))))
}

func (m *Matcher) best(query, text string) int {
	matches := m.FindAllMatches(query, text)
	if len(matches) == 0 {
		return 0
	}
	return matches[0].SimilarityScore
}

// PartialRatio compares the shorter string against every equally long window
// of the longer one and returns the best normalized Levenshtein similarity (0-100).
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]), len(short))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func ratio(a, b string, n int) int {
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(n))))
}
