package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/index"
	"github.com/sgx-labs/daybook/internal/notebook"
)

// setupServer points the package state at a populated temp notebook with
// an in-memory index.
func setupServer(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := notebook.Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load config: %v", err)
	}

	noteDir := filepath.Join(c.NotesPath(), "2026")
	if err := os.MkdirAll(noteDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "# Monday\n\n## Alpha\n\n### Write spec\nDrafted the migration plan.\n"
	if err := os.WriteFile(filepath.Join(noteDir, "2026-03-02.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	memDB, err := index.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { memDB.Close() })

	nb, err := notebook.Load(c)
	if err != nil {
		t.Fatalf("Load notebook: %v", err)
	}
	if _, err := memDB.Rebuild(nb, false); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	db = memDB
	cfg = c
	notebookRoot, _ = filepath.Abs(dir)
}

func resultText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleSearchNotes(t *testing.T) {
	setupServer(t)

	res, _, err := handleSearchNotes(context.Background(), nil, searchInput{Query: "migration"})
	if err != nil {
		t.Fatalf("handleSearchNotes: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Alpha") || !strings.Contains(text, "2026-03-02") {
		t.Errorf("result = %s", text)
	}
}

func TestHandleSearchNotesEmpty(t *testing.T) {
	setupServer(t)

	res, _, err := handleSearchNotes(context.Background(), nil, searchInput{Query: "zeppelin"})
	if err != nil {
		t.Fatalf("handleSearchNotes: %v", err)
	}
	if !strings.Contains(resultText(t, res), "No results") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestHandleGetNote(t *testing.T) {
	setupServer(t)

	rel := filepath.Join("notes", "2026", "2026-03-02.md")
	res, _, err := handleGetNote(context.Background(), nil, getInput{Path: rel})
	if err != nil {
		t.Fatalf("handleGetNote: %v", err)
	}
	if !strings.Contains(resultText(t, res), "# Monday") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestHandleGetNoteBlocksTraversal(t *testing.T) {
	setupServer(t)

	for _, p := range []string{"../secrets.txt", "/etc/passwd", "notes/../../x"} {
		res, _, err := handleGetNote(context.Background(), nil, getInput{Path: p})
		if err != nil {
			t.Fatalf("handleGetNote(%q): %v", p, err)
		}
		if !strings.Contains(resultText(t, res), "Error") {
			t.Errorf("path %q not rejected: %s", p, resultText(t, res))
		}
	}
}

func TestHandleListProjects(t *testing.T) {
	setupServer(t)

	res, _, err := handleListProjects(context.Background(), nil, emptyInput{})
	if err != nil {
		t.Fatalf("handleListProjects: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Alpha") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestHandleProjectTasks(t *testing.T) {
	setupServer(t)

	res, _, err := handleProjectTasks(context.Background(), nil, projectInput{Project: "alpha"})
	if err != nil {
		t.Fatalf("handleProjectTasks: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Write spec") || !strings.Contains(text, "2026-03-02") {
		t.Errorf("result = %s", text)
	}
}

func TestSafeNotebookPath(t *testing.T) {
	setupServer(t)

	if got := safeNotebookPath("notes/2026/2026-03-02.md"); got == "" {
		t.Error("valid relative path rejected")
	}
	for _, p := range []string{"/abs/path", "../outside", "a/../../b"} {
		if got := safeNotebookPath(p); got != "" {
			t.Errorf("safeNotebookPath(%q) = %q, want rejection", p, got)
		}
	}
}
