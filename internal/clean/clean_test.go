package clean

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sgx-labs/daybook/internal/note"
)

func mustRule(t *testing.T, pattern, replacement string) Rule {
	t.Helper()
	r, err := CompileRule(pattern, replacement)
	if err != nil {
		t.Fatalf("CompileRule(%q): %v", pattern, err)
	}
	return r
}

func TestCleanTextCollapsesBlankLines(t *testing.T) {
	e := NewEngine(nil, nil)
	in := "# Day\n\n## P\n\n### A\ndone\n\n\n\n### B\n"
	want := "# Day\n\n## P\n\n### A\ndone\n\n### B\n"
	if got := e.CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextTrailingWhitespaceAndNewline(t *testing.T) {
	e := NewEngine(nil, nil)
	in := "# Day   \nline with spaces  \n\ttabbed\t\n\n\n"
	want := "# Day\nline with spaces\n\ttabbed\n"
	if got := e.CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextNormalizesRuleOutput(t *testing.T) {
	// Rules run before the structural cleanup, so whitespace a rule
	// introduces is trimmed in the same pass.
	e := NewEngine(nil, []Rule{mustRule(t, `done`, "done  \n\n")})
	in := "# Day\nwork done\nhere\n"
	want := "# Day\nwork done\n\nhere\n"
	if got := e.CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextNoTrailingNewlineGetsOne(t *testing.T) {
	e := NewEngine(nil, nil)
	if got := e.CleanText("# Day"); got != "# Day\n" {
		t.Errorf("CleanText = %q", got)
	}
}

func TestCleanTextAppliesRulesInOrder(t *testing.T) {
	// The second rule only matches text produced by the first.
	rules := []Rule{
		mustRule(t, "teh", "the"),
		mustRule(t, "the bug", "the fix"),
	}
	e := NewEngine(nil, rules)
	if got := e.CleanText("# Day\nteh bug\n"); got != "# Day\nthe fix\n" {
		t.Errorf("CleanText = %q", got)
	}
}

func TestCleanTextQuoteRules(t *testing.T) {
	rules := []Rule{
		mustRule(t, "[“”]", `"`),
		mustRule(t, "[‘’]", "'"),
	}
	e := NewEngine(nil, rules)
	in := "# Day\n“quoted” and ‘single’\n"
	want := "# Day\n\"quoted\" and 'single'\n"
	if got := e.CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	rules := []Rule{
		mustRule(t, "[“”]", `"`),
	}
	e := NewEngine(nil, rules)
	inputs := []string{
		"# Day\n\n\n\n## P   \ntext “x”\n\n\n",
		"# Day\n## P\n### T\n",
	}
	for _, in := range inputs {
		once := e.CleanText(in)
		twice := e.CleanText(once)
		if once != twice {
			t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestCleanDocumentCanonicalizesKnownNames(t *testing.T) {
	reg := NewRegistry()
	reg.Projects["Alpha"] = "Alpha"
	reg.Tasks["Alpha"] = map[string]string{"Write spec": "Write spec"}
	e := NewEngine(reg, nil)

	doc, err := note.Parse("# Day\n\n## alpha   \n\n### write  spec\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := e.CleanDocument(doc)

	if doc.Root.Parts[0].Title != "Alpha" {
		t.Errorf("project title = %q, want Alpha", doc.Root.Parts[0].Title)
	}
	if doc.Root.Parts[0].Parts[0].Title != "Write spec" {
		t.Errorf("task title = %q, want Write spec", doc.Root.Parts[0].Parts[0].Title)
	}
	want := "# Day\n\n## Alpha\n\n### Write spec\n"
	if out != want {
		t.Errorf("CleanDocument = %q, want %q", out, want)
	}
}

func TestCleanDocumentKeepsAndRegistersNewNames(t *testing.T) {
	reg := NewRegistry()
	reg.Projects["Alpha"] = "Alpha"
	e := NewEngine(reg, nil)

	doc, err := note.Parse("# Day\n\n## Beta\n\n### New task\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e.CleanDocument(doc)

	if doc.Root.Parts[0].Title != "Beta" {
		t.Errorf("new project renamed to %q", doc.Root.Parts[0].Title)
	}
	if reg.Projects["Beta"] != "Beta" {
		t.Errorf("Beta not registered: %v", reg.Projects)
	}
	if reg.Tasks["Beta"]["New task"] != "New task" {
		t.Errorf("task not registered: %v", reg.Tasks)
	}
	if !reg.Dirty() {
		t.Error("registry should be dirty after registering new names")
	}
}

func TestCleanDocumentUserRename(t *testing.T) {
	reg := NewRegistry()
	reg.Projects["Old Name"] = "New Name"
	reg.Projects["New Name"] = "New Name"
	e := NewEngine(reg, nil)

	doc, err := note.Parse("# Day\n\n## Old Name\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e.CleanDocument(doc)
	if doc.Root.Parts[0].Title != "New Name" {
		t.Errorf("rename not applied, title = %q", doc.Root.Parts[0].Title)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")

	reg := NewRegistry()
	reg.CanonicalProject("Alpha")
	reg.CanonicalTask("Alpha", "Write spec")
	if err := reg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if loaded.Projects["Alpha"] != "Alpha" {
		t.Errorf("loaded projects = %v", loaded.Projects)
	}
	if loaded.Tasks["Alpha"]["Write spec"] != "Write spec" {
		t.Errorf("loaded tasks = %v", loaded.Tasks)
	}
	if loaded.Dirty() {
		t.Error("freshly loaded registry should not be dirty")
	}
}

func TestRegistrySaveSkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")

	reg := NewRegistry()
	if err := reg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Save should not write when nothing changed")
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.Projects) != 0 {
		t.Errorf("expected empty registry, got %v", reg.Projects)
	}
}

func TestLoadRegistryMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	if err := os.WriteFile(path, []byte("projects: [not, a, map]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRegistry(path)
	if !errors.Is(err, ErrBadRegistry) {
		t.Errorf("err = %v, want ErrBadRegistry", err)
	}
}

func TestLoadRulesPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrections.yaml")
	content := "zz: first\naa: second\nmm: third\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	want := []string{"zz", "aa", "mm"}
	for i, w := range want {
		if rules[i].Pattern != w {
			t.Errorf("rule %d pattern = %q, want %q", i, rules[i].Pattern, w)
		}
	}
}

func TestLoadRulesBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrections.yaml")
	if err := os.WriteFile(path, []byte("'[unclosed': x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRules(path)
	if !errors.Is(err, ErrBadRules) {
		t.Errorf("err = %v, want ErrBadRules", err)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules != nil {
		t.Errorf("expected no rules, got %v", rules)
	}
}
