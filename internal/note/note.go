// Package note parses dated markdown notes into a heading tree and
// serializes them back to markdown.
//
// A note is one day's file: a single level-1 heading (the day title),
// level-2 headings for projects, level-3 headings for tasks, and optional
// level-4/5 sub-divisions. Parsing is lenient about skipped levels: a
// heading deeper than parent+1 attaches to the nearest still-open
// ancestor rather than failing.
package note

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

// headingLineRe matches a heading line of level 1-5: one to five '#'
// followed by a single space. Six or more '#' never match and fall
// through to body text.
var headingLineRe = regexp.MustCompile(`(?m)^#{1,5} .*$`)

// Heading levels recognized by the parser. Deeper headings (###### and
// beyond) are treated as body text.
const (
	LevelDay     = 1
	LevelProject = 2
	LevelTask    = 3
	MaxLevel     = 5
)

// Structural parse failures. Everything else about a note's markdown is
// accepted as-is.
var (
	// ErrNoRootHeading is returned when a note has no level-1 heading.
	ErrNoRootHeading = errors.New("no level-1 heading found")
	// ErrRootNotFirst is returned when a deeper heading appears before
	// the level-1 heading.
	ErrRootNotFirst = errors.New("heading appears before the level-1 heading")
	// ErrDuplicateRoot is returned when a note contains more than one
	// level-1 heading.
	ErrDuplicateRoot = errors.New("more than one level-1 heading")
)

// Part is one heading and everything that belongs to it: the heading
// title, the verbatim body text up to the next heading, and any
// sub-headings as child parts.
type Part struct {
	// Level is the heading depth, 1-5.
	Level int
	// Title is the heading text exactly as written after "#... ".
	// Use Name for a whitespace-trimmed form.
	Title string
	// Body is the verbatim text between this heading line and the next
	// heading line, starting with the newline that terminates the
	// heading line. It is empty only when the heading is the last line
	// of the file with no trailing newline.
	Body string
	// Parts are the child headings in document order.
	Parts []*Part
}

// Name returns the heading title with surrounding whitespace trimmed.
func (p *Part) Name() string {
	return strings.TrimSpace(p.Title)
}

// Markdown reconstructs the part and its children as markdown text.
// It is the exact inverse of Parse: serializing a freshly parsed tree
// reproduces the input byte for byte.
func (p *Part) Markdown() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (p *Part) write(b *strings.Builder) {
	b.WriteString(strings.Repeat("#", p.Level))
	b.WriteString(" ")
	b.WriteString(p.Title)
	b.WriteString(p.Body)
	for _, child := range p.Parts {
		child.write(b)
	}
}

// Walk calls fn for p and every descendant part in document order.
func (p *Part) Walk(fn func(*Part)) {
	fn(p)
	for _, child := range p.Parts {
		child.Walk(fn)
	}
}

// ChildrenAt returns the descendants of p at the given heading level,
// in document order.
func (p *Part) ChildrenAt(level int) []*Part {
	var out []*Part
	p.Walk(func(part *Part) {
		if part.Level == level {
			out = append(out, part)
		}
	})
	return out
}

// HasContent reports whether the part or any descendant carries body
// text beyond blank lines. A freshly generated note is all headings and
// whitespace, so HasContent is false until something is written in it.
func (p *Part) HasContent() bool {
	found := false
	p.Walk(func(part *Part) {
		if strings.TrimSpace(part.Body) != "" {
			found = true
		}
	})
	return found
}

// Meta holds the fields read from a note's optional YAML frontmatter.
type Meta struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// Document is one parsed note file.
type Document struct {
	// File is the base filename without extension, set by the loader.
	File string
	// FrontMatter is the raw frontmatter block including delimiters,
	// preserved verbatim so serialization round-trips. Empty when the
	// note has none.
	FrontMatter string
	// Preamble is any text between the frontmatter and the level-1
	// heading, preserved verbatim. Normally blank lines or empty.
	Preamble string
	// Meta holds the decoded frontmatter fields.
	Meta Meta
	// Root is the level-1 day heading.
	Root *Part
}

// Markdown reconstructs the whole document, frontmatter included.
func (d *Document) Markdown() string {
	return d.FrontMatter + d.Preamble + d.Root.Markdown()
}

// Projects returns the document's level-2 parts in order.
func (d *Document) Projects() []*Part {
	return d.Root.ChildrenAt(LevelProject)
}

// Project returns the level-2 part whose trimmed title matches name
// case-insensitively, or nil.
func (d *Document) Project(name string) *Part {
	want := foldName(name)
	for _, p := range d.Projects() {
		if foldName(p.Title) == want {
			return p
		}
	}
	return nil
}

// HasContent reports whether any heading in the document carries body
// text beyond blank lines.
func (d *Document) HasContent() bool {
	return d.Root.HasContent()
}

// Parse parses a note's raw text into a Document. The text must contain
// exactly one level-1 heading and it must be the first heading;
// frontmatter and blank lines may precede it.
func Parse(text string) (*Document, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	doc := &Document{}
	body := text
	var meta Meta
	if rest, err := frontmatter.Parse(strings.NewReader(text), &meta); err == nil {
		doc.Meta = meta
		body = string(rest)
		doc.FrontMatter = text[:len(text)-len(body)]
	}

	root, preamble, err := parseTree(body)
	if err != nil {
		return nil, err
	}
	doc.Root = root
	doc.Preamble = preamble
	return doc, nil
}

// parseTree builds the heading tree from markdown text in a single pass
// over the heading lines, using an explicit stack keyed by level. A
// heading of level L closes every open node of level >= L and attaches
// as a child of the nearest open node of level < L.
func parseTree(text string) (*Part, string, error) {
	locs := headingLineRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, "", ErrNoRootHeading
	}

	var root *Part
	stack := make([]*Part, 0, MaxLevel)

	for i, loc := range locs {
		line := text[loc[0]:loc[1]]
		level := headingLevel(line)

		// Body runs from the end of this heading line (including its
		// terminating newline) to the start of the next heading line.
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		part := &Part{
			Level: level,
			Title: line[level+1:],
			Body:  text[loc[1]:end],
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			switch {
			case level != LevelDay:
				return nil, "", fmt.Errorf("%w: level %d heading %q", ErrRootNotFirst, level, part.Name())
			case root != nil:
				return nil, "", fmt.Errorf("%w: %q", ErrDuplicateRoot, part.Name())
			}
			root = part
		} else {
			parent := stack[len(stack)-1]
			parent.Parts = append(parent.Parts, part)
		}
		stack = append(stack, part)
	}

	return root, text[:locs[0][0]], nil
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n
}

// foldName normalizes a heading title for comparison: trimmed, inner
// whitespace collapsed, lowercased.
func foldName(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// FoldName is the comparison key used for case/whitespace-insensitive
// heading lookups across the notebook.
func FoldName(title string) string {
	return foldName(title)
}
