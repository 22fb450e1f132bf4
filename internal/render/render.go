// Package render turns notebook Markdown into styled HTML pages using
// the notebook's own page template and stylesheet.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/sgx-labs/daybook/internal/clean"
	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/fsx"
	"github.com/sgx-labs/daybook/internal/notebook"
)

// headingRe matches the start of any heading line so the whole document
// can be demoted one level before rendering into the page shell.
var headingRe = regexp.MustCompile(`(?m)^#`)

// Renderer converts Markdown to HTML and writes pages into the
// notebook's render directory.
type Renderer struct {
	cfg        *config.Config
	md         goldmark.Markdown
	page       *template.Template
	stylesheet template.CSS
	rules      []clean.Rule
}

// pageData is the data passed to templates/page.html.
type pageData struct {
	Title      string
	Stylesheet template.CSS
	Body       template.HTML
}

// New builds a Renderer from the notebook's templates. The page shell,
// stylesheet and render-time correction rules all live in the notebook
// so they stay user-editable.
func New(cfg *config.Config) (*Renderer, error) {
	page, err := template.ParseFiles(filepath.Join(cfg.TemplatePath(), "page.html"))
	if err != nil {
		return nil, fmt.Errorf("load page template: %w", err)
	}

	css, err := os.ReadFile(filepath.Join(cfg.TemplatePath(), cfg.Render.Stylesheet))
	if err != nil {
		// A missing stylesheet renders unstyled rather than failing.
		css = nil
	}

	rules, err := clean.LoadRules(cfg.RenderRulesPath())
	if err != nil {
		return nil, fmt.Errorf("load render rules: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	return &Renderer{
		cfg:        cfg,
		md:         md,
		page:       page,
		stylesheet: template.CSS(css),
		rules:      rules,
	}, nil
}

// renderMarkdown converts one Markdown fragment to HTML: demote headings
// one level so day headings sit under the page title, apply the
// render-time rules, then convert.
func (r *Renderer) renderMarkdown(text string) (string, error) {
	text = headingRe.ReplaceAllString(text, "##")
	text = clean.Apply(r.rules, text)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// writePage renders the page shell around body and writes it atomically
// to rendered/<name>.html, logging the output file's hash.
func (r *Renderer) writePage(name, title string, fragments []string) (string, error) {
	body := strings.Join(fragments, "\n")
	data := pageData{
		Title:      title,
		Stylesheet: r.stylesheet,
		Body:       template.HTML(body),
	}

	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page template: %w", err)
	}

	path := filepath.Join(r.cfg.RenderPath(), sanitizeFilename(name)+".html")
	if err := fsx.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write page: %w", err)
	}
	if err := r.logOutput(path); err != nil {
		fmt.Fprintf(os.Stderr, "daybook: WARNING: hash log: %v\n", err)
	}
	return path, nil
}

// RenderNotebook renders every note with content into one merged HTML
// page named after the notebook.
func (r *Renderer) RenderNotebook(nb *notebook.Notebook) (string, error) {
	var fragments []string
	for _, n := range nb.Notes {
		if !n.Doc.HasContent() {
			continue
		}
		html, err := r.renderMarkdown(n.Doc.Markdown())
		if err != nil {
			return "", fmt.Errorf("%s: %w", n.Rel, err)
		}
		fragments = append(fragments, html)
	}
	return r.writePage(r.cfg.Notebook.Name, r.cfg.Notebook.Name, fragments)
}

// RenderProject extracts one project's dated sections into its own HTML
// page. A project that appears nowhere is ErrProjectNotFound; one that
// appears but has no content renders nothing and returns an empty path.
func (r *Renderer) RenderProject(nb *notebook.Notebook, name string) (string, error) {
	sections := nb.ProjectSections(name)
	if len(sections) == 0 {
		if nb.HasProject(name) {
			return "", nil
		}
		return "", fmt.Errorf("%q: %w", name, notebook.ErrProjectNotFound)
	}

	display := strings.TrimSpace(name)
	var fragments []string
	for _, s := range sections {
		html, err := r.renderMarkdown(s.Markdown)
		if err != nil {
			return "", fmt.Errorf("%s: %w", s.Rel, err)
		}
		fragments = append(fragments, html)
	}
	return r.writePage(display, display, fragments)
}

// RenderAllProjects renders a page per project. Per-project failures are
// returned alongside the pages that did render.
func (r *Renderer) RenderAllProjects(nb *notebook.Notebook) ([]string, []error) {
	var paths []string
	var errs []error
	for _, name := range nb.AllProjects() {
		path, err := r.RenderProject(nb, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("render %q: %w", name, err))
			continue
		}
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths, errs
}

// filenameRe matches characters unsafe in output filenames.
var filenameRe = regexp.MustCompile(`[^A-Za-z0-9 ._-]`)

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = filenameRe.ReplaceAllString(name, "-")
	if name == "" {
		name = "untitled"
	}
	return name
}
