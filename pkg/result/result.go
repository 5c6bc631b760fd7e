// Package result defines the common types shared by the scan pipeline.
package result

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies the kind of document a result points at.
type Category string

// Category constants.
const (
	CategoryWeb      Category = "web"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategorySocial   Category = "social"
	CategoryForum    Category = "forum"
	CategoryArchive  Category = "archive"
	CategoryAdult    Category = "adult"
	CategoryDocument Category = "document"
	CategoryProfile  Category = "profile"
	CategoryUnknown  Category = "unknown"
)

// AccessStatus describes whether a document could be read.
type AccessStatus string

// AccessStatus constants.
const (
	AccessFree          AccessStatus = "free"
	AccessRequiresLogin AccessStatus = "requires_login"
	AccessPaywall       AccessStatus = "paywall"
	AccessBlocked       AccessStatus = "blocked"
	AccessArchived      AccessStatus = "archived"
	AccessDeleted       AccessStatus = "deleted"
	AccessError         AccessStatus = "error"
	AccessUnknown       AccessStatus = "unknown"
)

// MatchType describes which tier of the fuzzy matcher produced a match.
type MatchType string

// MatchType constants, strongest first.
const (
	MatchExact           MatchType = "exact"
	MatchCaseInsensitive MatchType = "case_insensitive"
	MatchTypoTolerant    MatchType = "typo_tolerant"
	MatchPhonetic        MatchType = "phonetic"
	MatchAbbreviated     MatchType = "abbreviated"
	MatchPartial         MatchType = "partial"
)

// FuzzyMatchInfo records how a query matched a piece of text.
type FuzzyMatchInfo struct {
	OriginalQuery   string    `json:"original_query"`
	MatchedText     string    `json:"matched_text"`
	SimilarityScore int       `json:"similarity_score"` // 0-100
	Type            MatchType `json:"type"`
	Variations      []string  `json:"variations,omitempty"`
}

// AccountData is structured profile information extracted from a page.
//
//nolint:govet // fieldalignment: intentional layout for readability
type AccountData struct {
	Username       string            `json:"username,omitempty"`
	DisplayName    string            `json:"display_name,omitempty"`
	Email          string            `json:"email,omitempty"`
	ProfileURL     string            `json:"profile_url,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	Location       string            `json:"location,omitempty"`
	FollowerCount  *int              `json:"follower_count,omitempty"`
	FollowingCount *int              `json:"following_count,omitempty"`
	AvatarURL      string            `json:"avatar_url,omitempty"`
	IsVerified     bool              `json:"is_verified,omitempty"`
	CustomFields   map[string]string `json:"custom_fields,omitempty"`

	IsPotentialMisuse bool   `json:"is_potential_misuse,omitempty"`
	MisuseReason      string `json:"misuse_reason,omitempty"`
}

// Empty reports whether no identifying field was populated.
func (a *AccountData) Empty() bool {
	return a == nil || (a.Username == "" && a.DisplayName == "" && a.Email == "" &&
		a.Bio == "" && a.AvatarURL == "")
}

// SearchResult is a single candidate document. Stages of the pipeline mutate it in place;
// ID, URL and Domain never change once set.
//
//nolint:govet // fieldalignment: intentional layout for readability
type SearchResult struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Domain string `json:"domain"`

	Title         string `json:"title,omitempty"`
	Snippet       string `json:"snippet,omitempty"`
	ExtractedText string `json:"extracted_text,omitempty"`
	HTMLContent   string `json:"-"`

	Category     Category     `json:"category"`
	AccessStatus AccessStatus `json:"access_status"`

	ConfidenceScore float64 `json:"confidence_score"`
	RelevanceScore  float64 `json:"relevance_score"`
	IsDuplicate     bool    `json:"is_duplicate,omitempty"`

	AccountInfo        *AccountData      `json:"account_info,omitempty"`
	FuzzyMatch         *FuzzyMatchInfo   `json:"fuzzy_match,omitempty"`
	Entities           []string          `json:"entities,omitempty"`
	IdentityMarkers    []string          `json:"identity_markers,omitempty"`
	Summary            string            `json:"summary,omitempty"`
	CategoryPrediction string            `json:"category_prediction,omitempty"`
	IsFakeProfile      *bool             `json:"is_fake_profile,omitempty"`
	MediaLinks         []string          `json:"media_links,omitempty"`
	OutgoingLinks      []string          `json:"outgoing_links,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`

	FoundAt time.Time `json:"found_at"`
}

// New creates a result for rawURL with a fresh identity.
func New(rawURL string) *SearchResult {
	return &SearchResult{
		ID:           uuid.NewString(),
		URL:          rawURL,
		Domain:       Domain(rawURL),
		Category:     CategoryUnknown,
		AccessStatus: AccessUnknown,
		FoundAt:      time.Now(),
	}
}

// Domain returns the host portion of rawURL, or "unknown" if it has none.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}

// Filter narrows a result list. Zero values disable the corresponding check.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Filter struct {
	Categories     []Category     `json:"categories,omitempty"`
	AccessStatuses []AccessStatus `json:"access_statuses,omitempty"`
	HideDuplicates bool           `json:"hide_duplicates,omitempty"`
	HideAdult      bool           `json:"hide_adult,omitempty"`
	MinConfidence  float64        `json:"min_confidence,omitempty"`
	IncludeDomains []string       `json:"include_domains,omitempty"`
	ExcludeDomains []string       `json:"exclude_domains,omitempty"`
	From           *time.Time     `json:"from,omitempty"`
	To             *time.Time     `json:"to,omitempty"`
}

// IntPtr returns a pointer to n, for the optional count fields.
func IntPtr(n int) *int { return &n }
