package variation

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateJonSmith(t *testing.T) {
	got := Generate("Jon Smith")
	for _, want := range []string{
		"Jon Smith", "jon smith", "JON SMITH", "JonSmith", "Jon_Smith", "Jon-Smith",
		"Smith Jon", "SmithJon", "JS", "js",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("Generate(%q) missing %q", "Jon Smith", want)
		}
	}
	if got[0] != "Jon Smith" {
		t.Errorf("first variant = %q, want original", got[0])
	}
}

func TestGenerateFoldedUnique(t *testing.T) {
	for _, name := range []string{"Jon Smith", "Phil Kaiser", "a", "Zoë Meyer-Stein", "ALL CAPS"} {
		t.Run(name, func(t *testing.T) {
			got := Generate(name)
			if !slices.Contains(got, name) {
				t.Fatalf("Generate(%q) missing original", name)
			}
			caseForms := map[string]bool{
				strings.ToLower(name): true,
				strings.ToUpper(name): true,
			}
			exact := map[string]bool{}
			folded := map[string]string{}
			for _, v := range got {
				if exact[v] {
					t.Errorf("duplicate variant %q", v)
				}
				exact[v] = true
				if prev, ok := folded[strings.ToLower(v)]; ok && !caseForms[v] && !caseForms[prev] && len(v) > 2 {
					t.Errorf("variants %q and %q equal ignoring case", prev, v)
				}
				folded[strings.ToLower(v)] = v
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	if got := Generate("   "); len(got) != 0 {
		t.Errorf("Generate(blank) = %v, want empty", got)
	}
}

func TestTypos(t *testing.T) {
	got := Typos("abc")
	want := []string{
		"bac", "acb", // transpositions
		"bc", "ac", "ab", // deletions
		"aabc", "abbc", "abcc", // duplications
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Typos mismatch (-want +got):\n%s", diff)
	}
}

func TestAlternates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Philip", []string{"filip", "Phylyp"}},
		{"Kaiser", []string{"caiser", "Kaicer", "Kaizer", "Keiser", "Kayser"}},
		{"Bob", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Alternates(tt.name)
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("Alternates(%q) = %v, missing %q", tt.name, got, w)
				}
			}
			if tt.want == nil && len(got) != 0 {
				t.Errorf("Alternates(%q) = %v, want none", tt.name, got)
			}
		})
	}
}
