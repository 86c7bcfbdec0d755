package pipeline

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, path string
		want          bool
	}{
		{"**/*.md", "README.md", true},
		{"**/*.md", "docs/a/b.md", true},
		{"**/*.md", "docs/a/b.rst", false},
		{"docs/**/*.md", "docs/a.md", true},
		{"docs/**/*.md", "docs/x/y/a.md", true},
		{"docs/**/*.md", "other/a.md", false},
		{"docs/drafts/**", "docs/drafts/wip.md", true},
		{"docs/drafts/**", "docs/draft.md", false},
		{"*/api/**", "v1/api/index.md", true},
		{"*.md", "a.md", true},
		{"*.md", "dir/a.md", false},
		{"**", "anything/at/all", true},
	}
	for _, tt := range tests {
		if got := matchGlob(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"CHANGELOG.md", "docs/internal/**"}

	if !matchesAny(patterns, "sub/CHANGELOG.md") {
		t.Error("base-name pattern should match in any directory")
	}
	if !matchesAny(patterns, "./docs/internal/x.md") {
		t.Error("leading ./ should be ignored")
	}
	if matchesAny(patterns, "docs/public/x.md") {
		t.Error("unexpected match")
	}
	if matchesAny(nil, "a.md") {
		t.Error("no patterns never match")
	}
}
