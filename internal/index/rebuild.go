package index

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/sgx-labs/daybook/internal/notebook"
)

// Stats summarizes a reindex pass.
type Stats struct {
	Indexed int
	Skipped int
	Deleted int
	Failed  int
}

// Rebuild brings the index in line with the loaded notebook. Unchanged
// files (by content hash) are skipped unless force is set; records for
// files no longer on disk are deleted. Per-file failures are reported to
// stderr and the pass continues.
func (db *DB) Rebuild(nb *notebook.Notebook, force bool) (*Stats, error) {
	stats := &Stats{}

	stale, err := db.indexedPaths()
	if err != nil {
		return nil, fmt.Errorf("list indexed files: %w", err)
	}

	total := len(nb.Notes)
	for i, n := range nb.Notes {
		delete(stale, n.Rel)

		hash := contentHash(n.Doc.Markdown())
		if !force && db.FileHash(n.Rel) == hash {
			stats.Skipped++
			continue
		}
		if err := db.IndexNote(n.Rel, hash, Flatten(n)); err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] %s: %v\n", n.Rel, err)
			stats.Failed++
			continue
		}
		stats.Indexed++
		fmt.Fprintf(os.Stderr, "  [%d/%d] Indexed: %s\n", i+1, total, n.Rel)
	}

	for path := range stale {
		if err := db.DeletePath(path); err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] delete %s: %v\n", path, err)
			stats.Failed++
			continue
		}
		stats.Deleted++
	}
	return stats, nil
}

func contentHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}

// IndexFile indexes or refreshes a single loaded note. Used by watch
// mode when one file changes.
func (db *DB) IndexFile(n *notebook.Note) error {
	return db.IndexNote(n.Rel, contentHash(n.Doc.Markdown()), Flatten(n))
}
