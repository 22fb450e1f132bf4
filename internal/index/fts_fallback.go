//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search uses the LIKE fallback over entries.
	return nil
}

func ftsInsert(_ *sql.Tx, _ int64, _ Entry) error {
	// The record is already in the entries table; nothing extra to do.
	return nil
}

func ftsDeletePath(_ *sql.Tx, _ string) error { return nil }

// Search runs a substring search over the indexed records (fallback
// when the binary is built without the sqlite_fts5 tag). Every term
// must match somewhere in the project, task, or body.
func (db *DB) Search(query string, opts SearchOptions) ([]Result, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, nil
	}

	sql := `
		SELECT date, path, project, task, body
		FROM entries
		WHERE 1=1`
	var args []interface{}
	for _, t := range terms {
		sql += ` AND (project LIKE ? ESCAPE '\' OR task LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')`
		like := "%" + escapeLike(t) + "%"
		args = append(args, like, like, like)
	}
	if opts.Project != "" {
		sql += ` AND LOWER(TRIM(project)) = LOWER(TRIM(?))`
		args = append(args, opts.Project)
	}
	sql += ` ORDER BY date, path LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Date, &r.Path, &r.Project, &r.Task, &r.Body); err != nil {
			return nil, err
		}
		r.Snippet = excerpt(r.Body, terms[0])
		results = append(results, r)
	}
	return results, rows.Err()
}

// escapeLike makes a term safe inside a LIKE pattern so user input
// matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// excerpt returns the line of body containing the first term, trimmed,
// so fallback results still show some context.
func excerpt(body, term string) string {
	lower := strings.ToLower(body)
	i := strings.Index(lower, strings.ToLower(term))
	if i < 0 {
		// Matched in project or task; fall back to the first non-blank line.
		for _, line := range strings.Split(body, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				return s
			}
		}
		return ""
	}
	start := strings.LastIndexByte(body[:i], '\n') + 1
	end := strings.IndexByte(body[i:], '\n')
	if end < 0 {
		end = len(body)
	} else {
		end += i
	}
	return strings.TrimSpace(body[start:end])
}
