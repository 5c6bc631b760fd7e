package classify

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		text  string
		want  result.Category
	}{
		{"facebook", "https://www.facebook.com/jon", "", "", result.CategorySocial},
		{"x.com", "https://x.com/jon", "", "", result.CategorySocial},
		{"dropbox is not x", "https://dropbox.com/s/file", "", "", result.CategoryWeb},
		{"forum url", "https://example.com/forum/t/1", "", "", result.CategoryForum},
		{"forum title", "https://example.com/t/1", "Gardening Forum", "", result.CategoryForum},
		{"posted by", "https://example.com/t/1", "", "Posted by jon", result.CategoryForum},
		{"archive", "https://web.archive.org/web/2020/https://example.com", "", "", result.CategoryArchive},
		{"adult title", "https://example.com/v/1", "NSFW stuff", "", result.CategoryAdult},
		{"pdf", "https://example.com/cv.PDF", "", "", result.CategoryDocument},
		{"docs path", "https://example.com/docs/intro", "", "", result.CategoryDocument},
		{"image", "https://example.com/a.png", "", "", result.CategoryImage},
		{"photos", "https://example.com/photos/1", "", "", result.CategoryImage},
		{"youtube", "https://www.youtube.com/watch?v=1", "", "", result.CategoryVideo},
		{"mp4", "https://example.com/clip.mp4", "", "", result.CategoryVideo},
		{"github falls through", "https://github.com/example", "example", "", result.CategoryWeb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Category(tt.url, tt.title, tt.text); got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label(result.CategorySocial); got != "Social Media" {
		t.Errorf("Label(social) = %q", got)
	}
	if got := Label(result.CategoryAdult); got != "Adult Content" {
		t.Errorf("Label(adult) = %q", got)
	}
	if got := Label(result.Category("other")); got != "other" {
		t.Errorf("Label(other) = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "  ", ""},
		{"three sentences", "One. Two! Three? Four.", "One. Two. Three."},
		{"no terminator", "Just words", "Just words."},
		{"skips empty sentences", "A... B. C. D.", "A. B. C."},
		{"truncated", strings.Repeat("a", 400), strings.Repeat("a", 297) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.text); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntities(t *testing.T) {
	text := "Jon Smith lives in Berlin. He works at Acme-Corp with Jane Doe. Berlin is big! Up here."
	want := []string{"Smith", "Berlin", "Acme-Corp", "Jane", "Doe"}
	if diff := cmp.Diff(want, Entities(text)); diff != "" {
		t.Errorf("Entities() mismatch (-want +got):\n%s", diff)
	}

	if got := Entities(""); len(got) != 0 {
		t.Errorf("Entities(\"\") = %v, want empty", got)
	}

	var b strings.Builder
	b.WriteString("start")
	for i := range 30 {
		b.WriteString(" Name")
		b.WriteString(strings.Repeat("x", i+1))
	}
	if got := Entities(b.String()); len(got) != 20 {
		t.Errorf("len(Entities) = %d, want 20", len(got))
	}
}

func TestKeywords(t *testing.T) {
	text := "golang rocks. Golang is fun, golang and rust; rust rocks rocks"
	want := []string{"golang", "rocks", "rust"}
	if diff := cmp.Diff(want, Keywords(text, 3)); diff != "" {
		t.Errorf("Keywords() mismatch (-want +got):\n%s", diff)
	}
	if got := Keywords("a an the", 5); len(got) != 0 {
		t.Errorf("Keywords(short) = %v, want empty", got)
	}
}
