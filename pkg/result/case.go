package result

import (
	"time"

	"github.com/google/uuid"
)

// SearchCase groups the results of an investigation under a name.
type SearchCase struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Query      string          `json:"query"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Results    []*SearchResult `json:"results"`
	Statistics Statistics      `json:"statistics"`
}

// NewCase returns an empty case for query.
func NewCase(name, query string) *SearchCase {
	now := time.Now()
	if name == "" {
		name = query
	}
	return &SearchCase{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Statistics summarizes a result list.
type Statistics struct {
	Total             int                  `json:"total"`
	Unique            int                  `json:"unique"`
	Duplicates        int                  `json:"duplicates"`
	AverageConfidence float64              `json:"average_confidence"`
	ByCategory        map[Category]int     `json:"by_category,omitempty"`
	ByAccessStatus    map[AccessStatus]int `json:"by_access_status,omitempty"`
	ByDomain          map[string]int       `json:"by_domain,omitempty"`
}

// ComputeStatistics tallies results.
func ComputeStatistics(results []*SearchResult) Statistics {
	s := Statistics{
		ByCategory:     map[Category]int{},
		ByAccessStatus: map[AccessStatus]int{},
		ByDomain:       map[string]int{},
	}
	var sum float64
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		if r.IsDuplicate {
			s.Duplicates++
		} else {
			s.Unique++
		}
		sum += r.ConfidenceScore
		s.ByCategory[r.Category]++
		s.ByAccessStatus[r.AccessStatus]++
		s.ByDomain[r.Domain]++
	}
	if s.Total > 0 {
		s.AverageConfidence = sum / float64(s.Total)
	}
	return s
}
