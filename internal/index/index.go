// Package index provides the SQLite search layer over the notebook's
// flattened (date, project, task, body) records.
//
// Ranked full-text search with snippets needs FTS5, which go-sqlite3
// only compiles in under the sqlite_fts5 build tag:
//
//	go install -tags sqlite_fts5 github.com/sgx-labs/daybook/cmd/daybook
//
// A stock build works the same but searches with plain substring
// matching (see fts_fallback.go).
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/note"
	"github.com/sgx-labs/daybook/internal/notebook"
)

// DB wraps a SQLite connection holding the search index.
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // serialize writes
}

// Open opens or creates the index database for the notebook.
func Open(cfg *config.Config) (*DB, error) {
	return OpenPath(cfg.DBPath())
}

// OpenPath opens or creates the database at the given path.
func OpenPath(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// OpenMemory opens an in-memory database for testing.
func OpenMemory() (*DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			path TEXT NOT NULL,
			project TEXT NOT NULL,
			task TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project)`,

		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			indexed_at INTEGER NOT NULL DEFAULT (unixepoch())
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	if err := initFTS(db.conn); err != nil {
		return fmt.Errorf("init fts: %w", err)
	}
	return nil
}

// Entry is one flattened record: what was done for a project (and
// optionally a task) on a given day.
type Entry struct {
	Date    string
	Path    string // note path relative to the notebook root
	Project string
	Task    string
	Body    string
}

// Flatten turns one parsed note into its indexable records. Each task
// heading yields a record; a project with body text above its first task
// yields a task-less record.
func Flatten(n *notebook.Note) []Entry {
	var entries []Entry
	date := n.Doc.File
	for _, p := range n.Doc.Projects() {
		name := p.Name()
		if bodyHasText(p.Body) {
			entries = append(entries, Entry{
				Date: date, Path: n.Rel, Project: name, Body: p.Body,
			})
		}
		for _, task := range p.ChildrenAt(note.LevelTask) {
			entries = append(entries, Entry{
				Date: date, Path: n.Rel, Project: name,
				Task: task.Name(), Body: task.Markdown(),
			})
		}
	}
	return entries
}

func bodyHasText(body string) bool {
	for _, r := range body {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return true
		}
	}
	return false
}

// FileHash returns the stored content hash for a path, or empty string.
func (db *DB) FileHash(path string) string {
	var hash string
	if err := db.conn.QueryRow(`SELECT hash FROM files WHERE path = ?`, path).Scan(&hash); err != nil {
		return ""
	}
	return hash
}

// IndexNote replaces all records for the note's path with the given
// entries and records the content hash for incremental reindex.
func (db *DB) IndexNote(path, hash string, entries []Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deletePathTx(tx, path); err != nil {
		return err
	}
	for _, e := range entries {
		res, err := tx.Exec(
			`INSERT INTO entries (date, path, project, task, body) VALUES (?, ?, ?, ?, ?)`,
			e.Date, e.Path, e.Project, e.Task, e.Body,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := ftsInsert(tx, id, e); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO files (path, hash, indexed_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, indexed_at = excluded.indexed_at`,
		path, hash,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePath removes all records for a note that no longer exists.
func (db *DB) DeletePath(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deletePathTx(tx, path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return err
	}
	return tx.Commit()
}

func deletePathTx(tx *sql.Tx, path string) error {
	if err := ftsDeletePath(tx, path); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM entries WHERE path = ?`, path)
	return err
}

// indexedPaths returns every path currently in the files table.
func (db *DB) indexedPaths() (map[string]bool, error) {
	rows, err := db.conn.Query(`SELECT path FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = true
	}
	return paths, rows.Err()
}

// EntryCount returns the number of indexed records.
func (db *DB) EntryCount() int {
	var n int
	db.conn.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n
}
