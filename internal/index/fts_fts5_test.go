//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
)

func TestSearchSnippetHighlights(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	n := mustNote(t, "2026-03-02",
		"# Monday\n\n## Alpha\n\n### Task\nshipped the billing migration today\n")
	if err := db.IndexFile(n); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	results, err := db.Search("migration", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Snippet, "[migration]") {
		t.Errorf("snippet = %q, want matched term highlighted", results[0].Snippet)
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"one two", `"one" "two"`},
		{`say "hi"`, `"say" """hi"""`},
		{"  ", ""},
		{"foo-bar", `"foo-bar"`},
	}
	for _, tt := range tests {
		if got := ftsQuery(tt.in); got != tt.want {
			t.Errorf("ftsQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
