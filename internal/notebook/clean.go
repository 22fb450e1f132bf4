package notebook

import (
	"github.com/sgx-labs/daybook/internal/clean"
	"github.com/sgx-labs/daybook/internal/fsx"
)

// CleanStats summarizes a notebook-wide clean pass.
type CleanStats struct {
	Files   int
	Changed int
	Failed  []LoadError
}

// Clean runs the correction engine over every loaded note and rewrites
// the files whose cleaned text differs, atomically. A failed write is
// recorded and the pass continues; the source file keeps its old content
// either way. The caller saves the registry once afterwards.
func (nb *Notebook) Clean(e *clean.Engine) CleanStats {
	stats := CleanStats{Files: len(nb.Notes)}
	for _, n := range nb.Notes {
		original := n.Doc.Markdown()
		cleaned := e.CleanDocument(n.Doc)
		if cleaned == original {
			continue
		}
		if err := fsx.WriteFileAtomic(n.Path, []byte(cleaned), 0o644); err != nil {
			stats.Failed = append(stats.Failed, LoadError{Rel: n.Rel, Err: err})
			continue
		}
		stats.Changed++
	}
	return stats
}
