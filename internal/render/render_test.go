package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/notebook"
)

func setup(t *testing.T) (*config.Config, *notebook.Notebook) {
	t.Helper()
	dir := t.TempDir()
	if err := notebook.Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load config: %v", err)
	}
	writeNote(t, cfg, "2026-03-02",
		"# Monday\n\n## Alpha\n\n### Write spec\nDrafted the **first** pass.\n")
	writeNote(t, cfg, "2026-03-03",
		"# Tuesday\n\n## Beta\n\n### Ship it\n- [x] released\n")
	nb, err := notebook.Load(cfg)
	if err != nil {
		t.Fatalf("Load notebook: %v", err)
	}
	return cfg, nb
}

func writeNote(t *testing.T, cfg *config.Config, stem, content string) {
	t.Helper()
	dir := filepath.Join(cfg.NotesPath(), stem[:4])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, stem+".md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRenderNotebook(t *testing.T) {
	cfg, nb := setup(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := r.RenderNotebook(nb)
	if err != nil {
		t.Fatalf("RenderNotebook: %v", err)
	}
	if filepath.Base(path) != "notebook.html" {
		t.Errorf("output = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	// Day headings are demoted one level inside the page.
	if !strings.Contains(html, "<h2 id=\"monday\">Monday</h2>") {
		t.Errorf("missing demoted day heading:\n%s", html)
	}
	if !strings.Contains(html, "<strong>first</strong>") {
		t.Errorf("markdown not converted:\n%s", html)
	}
	if !strings.Contains(html, "Monday") || !strings.Contains(html, "Tuesday") {
		t.Error("merged page missing a day")
	}
}

func TestRenderProject(t *testing.T) {
	cfg, nb := setup(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := r.RenderProject(nb, "Alpha")
	if err != nil {
		t.Fatalf("RenderProject: %v", err)
	}
	if filepath.Base(path) != "Alpha.html" {
		t.Errorf("output = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "Write spec") {
		t.Errorf("missing project content:\n%s", html)
	}
	if strings.Contains(html, "Ship it") {
		t.Errorf("leaked other project:\n%s", html)
	}
}

func TestRenderProjectNotFound(t *testing.T) {
	cfg, nb := setup(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = r.RenderProject(nb, "Nothing")
	if !errors.Is(err, notebook.ErrProjectNotFound) {
		t.Errorf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestRenderAllProjects(t *testing.T) {
	cfg, nb := setup(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	paths, errs := r.RenderAllProjects(nb)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(paths) != 2 {
		t.Fatalf("rendered %d pages, want 2", len(paths))
	}
}

func TestRenderAppliesRenderRules(t *testing.T) {
	cfg, nb := setup(t)
	rules := "Drafted: Written\n"
	if err := os.WriteFile(cfg.RenderRulesPath(), []byte(rules), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := r.RenderNotebook(nb)
	if err != nil {
		t.Fatalf("RenderNotebook: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Written") {
		t.Error("render rule not applied")
	}
	// The source note is untouched.
	src, err := os.ReadFile(filepath.Join(cfg.NotesPath(), "2026", "2026-03-02.md"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(src), "Written") {
		t.Error("render rule modified the source note")
	}
}

func TestRenderLogsHashes(t *testing.T) {
	cfg, nb := setup(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.RenderNotebook(nb); err != nil {
		t.Fatalf("RenderNotebook: %v", err)
	}

	data, err := os.ReadFile(cfg.HashLogPath())
	if err != nil {
		t.Fatalf("hash log missing: %v", err)
	}
	line := strings.TrimSpace(string(data))
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		t.Fatalf("hash log row = %q", line)
	}
	if !strings.HasSuffix(fields[0], "notebook.html") {
		t.Errorf("logged path = %q", fields[0])
	}
	if len(fields[2]) != 64 {
		t.Errorf("sha256 field = %q", fields[2])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alpha", "Alpha"},
		{"  Alpha  ", "Alpha"},
		{"client/infra", "client-infra"},
		{"a:b*c", "a-b-c"},
		{"", "untitled"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
