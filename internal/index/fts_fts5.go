//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
		project, task, body
	)`)
	return err
}

func ftsInsert(tx *sql.Tx, id int64, e Entry) error {
	_, err := tx.Exec(
		`INSERT INTO entries_fts (rowid, project, task, body) VALUES (?, ?, ?, ?)`,
		id, e.Project, e.Task, e.Body,
	)
	return err
}

func ftsDeletePath(tx *sql.Tx, path string) error {
	_, err := tx.Exec(
		`DELETE FROM entries_fts WHERE rowid IN (SELECT id FROM entries WHERE path = ?)`,
		path,
	)
	return err
}

// Search runs a full-text query over the indexed records, best matches
// first. Each term is quoted so user input cannot break the FTS query
// syntax.
func (db *DB) Search(query string, opts SearchOptions) ([]Result, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	sql := `
		SELECT e.date, e.path, e.project, e.task, e.body,
		       snippet(entries_fts, 2, '[', ']', '…', 12) AS snip,
		       bm25(entries_fts) AS rank
		FROM entries_fts
		JOIN entries e ON e.id = entries_fts.rowid
		WHERE entries_fts MATCH ?`
	args := []interface{}{match}
	if opts.Project != "" {
		sql += ` AND LOWER(TRIM(e.project)) = LOWER(TRIM(?))`
		args = append(args, opts.Project)
	}
	sql += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Date, &r.Path, &r.Project, &r.Task, &r.Body, &r.Snippet, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuery quotes each whitespace-separated term for FTS5 so operators
// and punctuation in user input are matched literally.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " ")
}
