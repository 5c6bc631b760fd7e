package reddit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"user path", "https://reddit.com/user/username", true},
		{"u path", "https://reddit.com/u/username", true},
		{"old reddit", "https://old.reddit.com/user/username", true},
		{"www reddit", "https://www.reddit.com/user/username", true},
		{"subreddit", "https://reddit.com/r/golang", false},
		{"other domain", "https://twitter.com/user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.url); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"user path", "https://reddit.com/user/johndoe", "johndoe"},
		{"u path", "https://reddit.com/u/johndoe", "johndoe"},
		{"with trailing slash", "https://reddit.com/user/johndoe/", "johndoe"},
		{"old reddit", "https://old.reddit.com/user/username", "username"},
		{"invalid", "https://reddit.com/r/golang", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractUsername(tt.url); got != tt.want {
				t.Errorf("extractUsername(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   *result.AccountData
	}{
		{
			name: "post karma",
			markup: `<html><head><meta property="og:title" content="testuser (u/testuser) - Reddit"></head>
<body><span class="karma">1,234 post karma</span> <span>56 comment karma</span></body></html>`,
			want: &result.AccountData{
				ProfileURL:   "https://www.reddit.com/user/testuser",
				Username:     "u/testuser",
				DisplayName:  "testuser (u/testuser) - Reddit",
				CustomFields: map[string]string{"karma": "1234"},
			},
		},
		{
			name:   "plain karma",
			markup: `<div>789 karma</div>`,
			want: &result.AccountData{
				ProfileURL:   "https://www.reddit.com/user/testuser",
				Username:     "u/testuser",
				CustomFields: map[string]string{"karma": "789"},
			},
		},
		{
			name:   "no karma",
			markup: `<div>hello</div>`,
			want: &result.AccountData{
				ProfileURL: "https://www.reddit.com/user/testuser",
				Username:   "u/testuser",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.markup, "https://www.reddit.com/user/testuser")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := Extract("<div>1 karma</div>", "https://reddit.com/r/golang"); got != nil {
		t.Errorf("Extract(subreddit) = %+v, want nil", got)
	}
}
