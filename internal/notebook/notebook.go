// Package notebook loads the dated note files of a notebook and answers
// queries across them: which projects exist, what was done for a project
// over time, and the merged chronological view. It also generates new
// notes and seeds fresh notebooks.
package notebook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/note"
)

var (
	// ErrProjectNotFound is returned by explicit single-project extraction
	// when the name matches nothing in the notebook or registry.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoteExists is returned when generating a note whose file already exists.
	ErrNoteExists = errors.New("note already exists")
)

// Note is one note file successfully loaded from disk.
type Note struct {
	Path string // absolute path
	Rel  string // path relative to the notebook root, for display
	Doc  *note.Document
}

// LoadError records a file that could not be read or parsed.
type LoadError struct {
	Rel string
	Err error
}

// Notebook is the loaded collection of notes, sorted chronologically.
type Notebook struct {
	Config *config.Config
	Notes  []*Note
	Errors []LoadError
}

// Load walks the notes directory and parses every .md file, sorted by
// base filename so the date-named convention yields chronological order.
// Files that fail to read or parse are recorded in Errors and skipped;
// loading continues. A missing notes directory yields an empty notebook.
func Load(cfg *config.Config) (*Notebook, error) {
	nb := &Notebook{Config: cfg}

	notesDir := cfg.NotesPath()
	var paths []string
	err := filepath.WalkDir(notesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nb, nil
		}
		return nil, fmt.Errorf("walk notes dir: %w", err)
	}

	// Sort by base filename, not full path, so year subdirectories do not
	// affect ordering.
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})

	for _, path := range paths {
		rel, relErr := filepath.Rel(cfg.Root, path)
		if relErr != nil {
			rel = path
		}
		data, err := os.ReadFile(path)
		if err != nil {
			nb.Errors = append(nb.Errors, LoadError{Rel: rel, Err: err})
			continue
		}
		doc, err := note.Parse(string(data))
		if err != nil {
			nb.Errors = append(nb.Errors, LoadError{Rel: rel, Err: err})
			continue
		}
		doc.File = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		nb.Notes = append(nb.Notes, &Note{Path: path, Rel: rel, Doc: doc})
	}
	return nb, nil
}

// AllProjects returns the distinct project names across the notebook,
// sorted. Names differing only in case or whitespace count as one
// project; the first spelling seen wins.
func (nb *Notebook) AllProjects() []string {
	seen := make(map[string]string)
	for _, n := range nb.Notes {
		for _, p := range n.Doc.Projects() {
			key := note.FoldName(p.Title)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = p.Name()
			}
		}
	}
	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasProject reports whether any note carries a project section matching name.
func (nb *Notebook) HasProject(name string) bool {
	for _, n := range nb.Notes {
		if n.Doc.Project(name) != nil {
			return true
		}
	}
	return false
}

// TaskEntry is one task heading found under a project on a given day.
type TaskEntry struct {
	Date string // note filename stem, chronological by construction
	Rel  string // note path relative to the notebook root
	Task *note.Part
}

// TasksForProject returns every task recorded under the named project,
// in chronological order. An unknown project yields an empty slice, not
// an error: asking about a project nobody worked on is an answerable
// question.
func (nb *Notebook) TasksForProject(name string) []TaskEntry {
	var entries []TaskEntry
	for _, n := range nb.Notes {
		p := n.Doc.Project(name)
		if p == nil {
			continue
		}
		for _, task := range p.ChildrenAt(note.LevelTask) {
			entries = append(entries, TaskEntry{Date: n.Doc.File, Rel: n.Rel, Task: task})
		}
	}
	return entries
}

// Section is a project's slice of one day: the day heading plus the
// project subtree, as standalone Markdown.
type Section struct {
	Date     string
	Rel      string
	Markdown string
}

// ProjectSections collects the named project's section from every note
// that has one, each prefixed with its day heading so the extract reads
// as a dated log.
func (nb *Notebook) ProjectSections(name string) []Section {
	var sections []Section
	for _, n := range nb.Notes {
		p := n.Doc.Project(name)
		if p == nil || !p.HasContent() {
			continue
		}
		var b strings.Builder
		b.WriteString("# ")
		b.WriteString(n.Doc.Root.Title)
		b.WriteString("\n\n")
		b.WriteString(p.Markdown())
		sections = append(sections, Section{Date: n.Doc.File, Rel: n.Rel, Markdown: b.String()})
	}
	return sections
}

// Merge returns the whole notebook as one chronological Markdown text,
// notes separated by a blank line.
func (nb *Notebook) Merge() string {
	var b strings.Builder
	for i, n := range nb.Notes {
		if i > 0 {
			b.WriteString("\n")
		}
		md := n.Doc.Markdown()
		b.WriteString(md)
		if !strings.HasSuffix(md, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
