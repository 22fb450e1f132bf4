// Package config resolves the notebook root directory and loads the
// notebook's .daybook/config.toml.
// Resolution priority: --notebook flag > NOTEBOOK_PATH env > marker
// auto-detect walking up from the current directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// MarkerDir is the dotdir that marks a directory as a notebook root.
// It holds config.toml, the name registry, correction rules and the
// search database.
const MarkerDir = ".daybook"

// Sentinel errors for consistent messaging across the CLI.
var (
	// ErrNotANotebook is returned when no notebook root can be resolved.
	ErrNotANotebook = errors.New("not inside a notebook — run 'daybook init' or set NOTEBOOK_PATH")
	// ErrAlreadyNotebook is returned by init when the target is already a notebook.
	ErrAlreadyNotebook = errors.New("directory is already a notebook")
)

// NotebookOverride is set by the --notebook global flag.
var NotebookOverride string

// Config holds per-notebook settings loaded from .daybook/config.toml.
type Config struct {
	Notebook NotebookConfig `toml:"notebook"`
	Render   RenderConfig   `toml:"render"`

	// Root is the resolved notebook root directory. Not read from TOML.
	Root string `toml:"-"`
}

// NotebookConfig holds layout settings for the notebook tree.
type NotebookConfig struct {
	Name        string `toml:"name"`         // notebook title, used for the merged render filename
	NotesDir    string `toml:"notes_dir"`    // where dated notes live, relative to root
	RenderDir   string `toml:"render_dir"`   // HTML output directory
	TemplateDir string `toml:"template_dir"` // note/page templates
	DateLayout  string `toml:"date_layout"`  // Go time layout for note filenames
}

// RenderConfig holds HTML rendering settings.
type RenderConfig struct {
	Stylesheet string `toml:"stylesheet"` // stylesheet filename inside template_dir
}

// Default returns a Config with all built-in defaults.
func Default() *Config {
	return &Config{
		Notebook: NotebookConfig{
			Name:        "notebook",
			NotesDir:    "notes",
			RenderDir:   "rendered",
			TemplateDir: "templates",
			DateLayout:  "2006-01-02",
		},
		Render: RenderConfig{
			Stylesheet: "note.css",
		},
	}
}

// FilePath returns the path of the config file for the given notebook root.
func FilePath(root string) string {
	return filepath.Join(root, MarkerDir, "config.toml")
}

// IsNotebook reports whether dir is a notebook root.
func IsNotebook(dir string) bool {
	info, err := os.Stat(FilePath(dir))
	return err == nil && !info.IsDir()
}

// ResolveRoot finds the notebook root directory.
// Flag and env values must point at an actual notebook; auto-detect walks
// up from the current directory looking for the marker.
func ResolveRoot() (string, error) {
	if NotebookOverride != "" {
		if !IsNotebook(NotebookOverride) {
			return "", fmt.Errorf("%s: %w", NotebookOverride, ErrNotANotebook)
		}
		return NotebookOverride, nil
	}
	if v := os.Getenv("NOTEBOOK_PATH"); v != "" {
		if !IsNotebook(v) {
			return "", fmt.Errorf("NOTEBOOK_PATH=%s: %w", v, ErrNotANotebook)
		}
		return v, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve notebook: %w", err)
	}
	dir := cwd
	for {
		if IsNotebook(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotANotebook
		}
		dir = parent
	}
}

// Load reads the notebook's config file, merging over defaults.
// A missing file yields pure defaults so a freshly seeded notebook works
// before the user ever edits config.toml.
func Load(root string) (*Config, error) {
	cfg := Default()
	cfg.Root = root

	path := FilePath(root)
	if _, err := os.Stat(path); err == nil {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		warnUnknownKeys(meta, path)
	}

	// Empty values fall back to defaults so a sparse config file is fine.
	def := Default()
	if cfg.Notebook.Name == "" {
		cfg.Notebook.Name = def.Notebook.Name
	}
	if cfg.Notebook.NotesDir == "" {
		cfg.Notebook.NotesDir = def.Notebook.NotesDir
	}
	if cfg.Notebook.RenderDir == "" {
		cfg.Notebook.RenderDir = def.Notebook.RenderDir
	}
	if cfg.Notebook.TemplateDir == "" {
		cfg.Notebook.TemplateDir = def.Notebook.TemplateDir
	}
	if cfg.Notebook.DateLayout == "" {
		cfg.Notebook.DateLayout = def.Notebook.DateLayout
	}
	if cfg.Render.Stylesheet == "" {
		cfg.Render.Stylesheet = def.Render.Stylesheet
	}

	if v := os.Getenv("DAYBOOK_NAME"); v != "" {
		cfg.Notebook.Name = v
	}

	return cfg, nil
}

// NotesPath returns the directory holding dated notes.
func (c *Config) NotesPath() string { return filepath.Join(c.Root, c.Notebook.NotesDir) }

// RenderPath returns the HTML output directory.
func (c *Config) RenderPath() string { return filepath.Join(c.Root, c.Notebook.RenderDir) }

// TemplatePath returns the template directory.
func (c *Config) TemplatePath() string { return filepath.Join(c.Root, c.Notebook.TemplateDir) }

// RegistryPath returns the project/task name registry file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Root, MarkerDir, "registry.yaml")
}

// RulesPath returns the clean-time correction rules file.
func (c *Config) RulesPath() string {
	return filepath.Join(c.Root, MarkerDir, "corrections.yaml")
}

// RenderRulesPath returns the render-time correction rules file.
func (c *Config) RenderRulesPath() string {
	return filepath.Join(c.Root, MarkerDir, "render_changes.yaml")
}

// HashLogPath returns the render hash log file.
func (c *Config) HashLogPath() string {
	return filepath.Join(c.Root, MarkerDir, "hash_log.csv")
}

// DBPath returns the SQLite search index file.
func (c *Config) DBPath() string {
	return filepath.Join(c.Root, MarkerDir, "data", "notebook.db")
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"notes":         "notes_dir",
	"note_dir":      "notes_dir",
	"notedir":       "notes_dir",
	"render":        "render_dir",
	"output_dir":    "render_dir",
	"templates":     "template_dir",
	"date_format":   "date_layout",
	"css":           "stylesheet",
	"style":         "stylesheet",
	"style_sheet":   "stylesheet",
	"title":         "name",
	"notebook_name": "name",
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}

	fname := filepath.Base(configPath)
	for _, key := range undecoded {
		keyStr := key.String()
		lastPart := key[len(key)-1]

		if suggestion, ok := configSuggestions[strings.ToLower(lastPart)]; ok {
			fmt.Fprintf(os.Stderr, "daybook: WARNING: unknown key %q in %s — did you mean %q?\n",
				keyStr, fname, suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "daybook: WARNING: unknown key %q in %s (will be ignored)\n",
				keyStr, fname)
		}
	}
}
