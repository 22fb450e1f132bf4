// Package watcher monitors the notes directory and keeps the search
// index in step with edits as they happen.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/index"
	"github.com/sgx-labs/daybook/internal/note"
	"github.com/sgx-labs/daybook/internal/notebook"
)

const debounceDelay = 2 * time.Second

// Watch starts watching the notes directory and reindexes modified
// notes. It blocks until the watcher fails or its channels close.
func Watch(db *index.DB, cfg *config.Config) error {
	notesDir := cfg.NotesPath()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := walkDirs(notesDir)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", d, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d directories in %s\n", len(dirs), notesDir)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop.\n\n")

	// Debounce: collect changed files over a window before reindexing,
	// editors fire several events per save.
	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
	)

	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(paths) == 0 {
			return
		}
		fmt.Fprintf(os.Stderr, "  Reindexing %d changed file(s)...\n", len(paths))
		reindexFiles(db, cfg, paths)
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(event.Name, ".md") {
				// But watch newly created directories (a new year folder).
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := w.Add(event.Name); err != nil {
							fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", event.Name, err)
						}
					}
				}
				continue
			}

			if event.Has(fsnotify.Rename) {
				// fsnotify rename events refer to the old path. Remove that
				// entry so stale paths don't survive file moves.
				removeFromIndex(db, cfg, event.Name)
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				mu.Lock()
				pending[event.Name] = true
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, flush)
				mu.Unlock()
			}

			if event.Has(fsnotify.Remove) {
				removeFromIndex(db, cfg, event.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "  [WARN] Watch error: %v\n", err)
		}
	}
}

func reindexFiles(db *index.DB, cfg *config.Config, paths []string) {
	for _, fp := range paths {
		rel := relativePath(fp, cfg.Root)
		info, statErr := os.Stat(fp)
		if statErr != nil {
			if os.IsNotExist(statErr) {
				// File disappeared before the debounce flush (common on
				// renames and deletes).
				removeFromIndex(db, cfg, fp)
			} else {
				fmt.Fprintf(os.Stderr, "  [ERROR] stat %s: %v\n", rel, statErr)
			}
			continue
		}
		if info.IsDir() {
			continue
		}

		data, err := os.ReadFile(fp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] read %s: %v\n", rel, err)
			continue
		}
		doc, err := note.Parse(string(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [WARN] %s: %v (skipped)\n", rel, err)
			continue
		}
		doc.File = strings.TrimSuffix(filepath.Base(fp), filepath.Ext(fp))

		n := &notebook.Note{Path: fp, Rel: rel, Doc: doc}
		if err := db.IndexFile(n); err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] %s: %v\n", rel, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  Indexed: %s\n", rel)
	}
}

func removeFromIndex(db *index.DB, cfg *config.Config, absPath string) {
	rel := relativePath(absPath, cfg.Root)
	if err := db.DeletePath(rel); err != nil {
		fmt.Fprintf(os.Stderr, "  [ERROR] remove %s: %v\n", rel, err)
		return
	}
	fmt.Fprintf(os.Stderr, "  Removed from index: %s\n", rel)
}

func walkDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

func relativePath(filePath, root string) string {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return filePath
	}
	return rel
}
