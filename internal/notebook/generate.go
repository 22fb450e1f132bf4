package notebook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/fsx"
)

// noteData is the data passed to the templates/note.md template.
type noteData struct {
	Title string // human date heading, e.g. "Monday 02 March 2026"
	Date  string // filename stem per the configured date layout
	ISO   string // RFC 3339 date
	Year  string
	Month string
}

// NotePath returns where the note for the given date lives, under a
// per-year subdirectory.
func NotePath(cfg *config.Config, date time.Time) string {
	stem := date.Format(cfg.Notebook.DateLayout)
	return filepath.Join(cfg.NotesPath(), date.Format("2006"), stem+".md")
}

// MakeNote renders templates/note.md for the given date and writes it
// atomically. An existing file is an error unless force is set.
func MakeNote(cfg *config.Config, date time.Time, force bool) (string, error) {
	path := NotePath(cfg, date)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s: %w", path, ErrNoteExists)
		}
	}

	out, err := renderNoteTemplate(cfg, date)
	if err != nil {
		return "", err
	}
	if err := fsx.WriteFileAtomic(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return path, nil
}

// MakeSeries generates notes for n consecutive days starting at start.
// Days whose note already exists are skipped. Returns the created paths.
func MakeSeries(cfg *config.Config, n int, start time.Time) ([]string, error) {
	var created []string
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i)
		path := NotePath(cfg, date)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		out, err := renderNoteTemplate(cfg, date)
		if err != nil {
			return created, err
		}
		if err := fsx.WriteFileAtomic(path, []byte(out), 0o644); err != nil {
			return created, fmt.Errorf("write note: %w", err)
		}
		created = append(created, path)
	}
	return created, nil
}

func renderNoteTemplate(cfg *config.Config, date time.Time) (string, error) {
	tmplPath := filepath.Join(cfg.TemplatePath(), "note.md")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("load note template: %w", err)
	}

	data := noteData{
		Title: date.Format("Monday 02 January 2006"),
		Date:  date.Format(cfg.Notebook.DateLayout),
		ISO:   date.Format("2006-01-02"),
		Year:  date.Format("2006"),
		Month: date.Format("January"),
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render note template: %w", err)
	}
	return b.String(), nil
}
