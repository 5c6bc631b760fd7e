package tiktok

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.tiktok.com/@jonsmith", true},
		{"https://TIKTOK.com/@jonsmith/video/1", true},
		{"https://www.tiktok.com/discover", false},
	}
	for _, tt := range tests {
		if got := Match(tt.url); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	markup := `<meta property="og:title" content="Jon Smith (@jonsmith) | TikTok">
<meta property="og:description" content="Dance videos">`

	got := Extract(markup, "https://www.tiktok.com/@jonsmith?lang=en")
	want := &result.AccountData{
		ProfileURL:  "https://www.tiktok.com/@jonsmith?lang=en",
		Username:    "@jonsmith",
		DisplayName: "Jon Smith (@jonsmith) | TikTok",
		Bio:         "Dance videos",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}

	if got := Extract(markup, "https://www.tiktok.com/discover"); got != nil {
		t.Errorf("Extract(discover) = %+v, want nil", got)
	}
}
