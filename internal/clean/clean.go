// Package clean normalizes note text: heading-name canonicalization
// against the notebook registry, structural whitespace cleanup, and the
// user's ordered regex corrections.
package clean

import (
	"regexp"
	"strings"

	"github.com/sgx-labs/daybook/internal/note"
)

var (
	trailingWSRe = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Engine applies the full correction pass. Running it twice over the
// same text produces identical output, provided the user's own rules
// are idempotent.
type Engine struct {
	Registry *Registry
	Rules    []Rule
}

// NewEngine builds an engine over the given registry and rule list.
func NewEngine(reg *Registry, rules []Rule) *Engine {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Engine{Registry: reg, Rules: rules}
}

// CleanDocument canonicalizes the document's project and task titles in
// place, then returns the cleaned serialized markdown. The document's
// registry side effect (unseen names appended) is visible on
// e.Registry; the caller persists it once per run.
func (e *Engine) CleanDocument(doc *note.Document) string {
	for _, proj := range doc.Root.ChildrenAt(note.LevelProject) {
		canon := e.Registry.CanonicalProject(proj.Title)
		proj.Title = canon
		for _, task := range proj.ChildrenAt(note.LevelTask) {
			task.Title = e.Registry.CanonicalTask(canon, task.Title)
		}
	}
	return e.CleanText(doc.Markdown())
}

// CleanText applies the ordered correction rules to the full serialized
// text, then the structural cleanup: per-line trailing whitespace
// trimmed, runs of blank lines collapsed to one, exactly one trailing
// newline. Rules run first, in order, so later rules see the output of
// earlier ones.
func (e *Engine) CleanText(text string) string {
	for _, r := range e.Rules {
		text = r.re.ReplaceAllString(text, r.Replacement)
	}
	text = trailingWSRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimRight(text, "\n") + "\n"
}
