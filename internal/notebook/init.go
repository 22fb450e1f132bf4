package notebook

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/fsx"
)

//go:embed defaults
var defaultsFS embed.FS

// seedMap maps each embedded default file to its directory relative to
// the notebook root.
var seedMap = map[string]string{
	"config.toml":         config.MarkerDir,
	"registry.yaml":       config.MarkerDir,
	"corrections.yaml":    config.MarkerDir,
	"render_changes.yaml": config.MarkerDir,
	"note.md":             "templates",
	"page.html":           "templates",
	"note.css":            "templates",
}

// Init seeds dir as a notebook: creates the directory layout and copies
// the embedded defaults. Files already present are never overwritten, so
// a directory that already holds notes can be adopted. A directory that
// is already a notebook is an error.
func Init(dir string) error {
	if config.IsNotebook(dir) {
		return fmt.Errorf("%s: %w", dir, config.ErrAlreadyNotebook)
	}

	for _, sub := range []string{config.MarkerDir, "notes", "rendered", "templates"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", sub, err)
		}
	}

	for name, destDir := range seedMap {
		dst := filepath.Join(dir, destDir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		data, err := defaultsFS.ReadFile("defaults/" + name)
		if err != nil {
			return fmt.Errorf("embedded default %s: %w", name, err)
		}
		if err := fsx.WriteFileAtomic(dst, data, 0o644); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}
