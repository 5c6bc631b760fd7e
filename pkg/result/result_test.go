package result

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/example", "github.com"},
		{"http://www.Example.org:8080/a?b=c", "www.Example.org"},
		{"www.example.com", "unknown"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Domain(tt.url); got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	a := New("https://example.com/a")
	b := New("https://example.com/a")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs not unique: %q %q", a.ID, b.ID)
	}
	if a.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", a.Domain)
	}
	if a.FoundAt.IsZero() {
		t.Error("FoundAt not set")
	}
}

func TestAccountDataEmpty(t *testing.T) {
	var nilData *AccountData
	if !nilData.Empty() {
		t.Error("nil AccountData should be empty")
	}
	if !(&AccountData{ProfileURL: "https://x"}).Empty() {
		t.Error("ProfileURL alone should count as empty")
	}
	if (&AccountData{Username: "@jon"}).Empty() {
		t.Error("username should make AccountData non-empty")
	}
}

func TestComputeStatistics(t *testing.T) {
	results := []*SearchResult{
		{Domain: "a.com", Category: CategorySocial, AccessStatus: AccessFree, ConfidenceScore: 1},
		{Domain: "a.com", Category: CategorySocial, AccessStatus: AccessFree, ConfidenceScore: 0.5, IsDuplicate: true},
		{Domain: "b.com", Category: CategoryWeb, AccessStatus: AccessError},
		nil,
	}

	got := ComputeStatistics(results)
	want := Statistics{
		Total:             3,
		Unique:            2,
		Duplicates:        1,
		AverageConfidence: 0.5,
		ByCategory:        map[Category]int{CategorySocial: 2, CategoryWeb: 1},
		ByAccessStatus:    map[AccessStatus]int{AccessFree: 2, AccessError: 1},
		ByDomain:          map[string]int{"a.com": 2, "b.com": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeStatistics() mismatch (-want +got):\n%s", diff)
	}
}
