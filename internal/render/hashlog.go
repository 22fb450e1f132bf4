package render

import (
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// logOutput appends a row describing a rendered file to
// .daybook/hash_log.csv: relative path, mtime, sha256, size. The log is
// an audit trail of what was rendered when, and lets external tooling
// detect changed outputs without re-reading them.
func (r *Renderer) logOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	sum, err := hashFile(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(r.cfg.Root, path)
	if err != nil {
		rel = path
	}

	f, err := os.OpenFile(r.cfg.HashLogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := []string{
		filepath.ToSlash(rel),
		info.ModTime().Format(time.RFC3339),
		sum,
		fmt.Sprintf("%d", info.Size()),
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
