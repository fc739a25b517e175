package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// SavedQuery is a row of the query table: a named, persisted search that a
// caller can re-run without re-specifying its parameters (§4.6).
type SavedQuery struct {
	ID            int64
	Name          string
	SelectTags    []string
	ExcludeTags   []string
	Pattern       string
	IgnoreCase    bool
	InvertMatch   bool
	IgnoreTagCase bool
}

// CreateSavedQuery inserts a named query. If a query by that name already
// exists, it is left untouched unless force is true, in which case it is
// overwritten (§4.6, SPEC_FULL.md C.2).
func CreateSavedQuery(ctx context.Context, ex execer, q SavedQuery, force bool) error {
	selectJSON, err := json.Marshal(q.SelectTags)
	if err != nil {
		return fmt.Errorf("marshal select_tags: %w", err)
	}
	excludeJSON, err := json.Marshal(q.ExcludeTags)
	if err != nil {
		return fmt.Errorf("marshal exclude_tags: %w", err)
	}

	pattern := q.Pattern
	if pattern == "" {
		pattern = ".*"
	}

	stmt := `
		INSERT INTO query (name, select_tags, exclude_tags, pattern, ignore_case, invert_match, ignore_tag_case)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if force {
		stmt += `
			ON CONFLICT (name) DO UPDATE SET
				select_tags = excluded.select_tags,
				exclude_tags = excluded.exclude_tags,
				pattern = excluded.pattern,
				ignore_case = excluded.ignore_case,
				invert_match = excluded.invert_match,
				ignore_tag_case = excluded.ignore_tag_case
		`
	} else {
		stmt += ` ON CONFLICT (name) DO NOTHING`
	}

	if _, err := ex.ExecContext(ctx, stmt,
		q.Name, string(selectJSON), string(excludeJSON), pattern,
		q.IgnoreCase, q.InvertMatch, q.IgnoreTagCase,
	); err != nil {
		return fmt.Errorf("create saved query %s: %w", q.Name, err)
	}
	return nil
}

// GetSavedQueryByName looks up a saved query by its unique name.
func GetSavedQueryByName(ctx context.Context, ex execer, name string) (SavedQuery, error) {
	row := ex.QueryRowContext(ctx, `
		SELECT id, name, select_tags, exclude_tags, pattern, ignore_case, invert_match, ignore_tag_case
		FROM query WHERE name = ?
	`, name)
	return scanSavedQuery(row)
}

// DeleteSavedQuery removes a named query; deleting a name that doesn't
// exist is a no-op.
func DeleteSavedQuery(ctx context.Context, ex execer, name string) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM query WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete saved query %s: %w", name, err)
	}
	return nil
}

// ListSavedQueries returns every saved query, ordered by name.
func ListSavedQueries(ctx context.Context, ex execer) ([]SavedQuery, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT id, name, select_tags, exclude_tags, pattern, ignore_case, invert_match, ignore_tag_case
		FROM query ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list saved queries: %w", err)
	}
	defer rows.Close()

	var queries []SavedQuery
	for rows.Next() {
		q, err := scanSavedQueryRows(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return queries, nil
}

type rowScanner interface {
	Scan(...any) error
}

func scanSavedQuery(row rowScanner) (SavedQuery, error) {
	q, err := scanSavedQueryRows(row)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("%w: saved query", ErrNotFound)
	}
	return q, nil
}

func scanSavedQueryRows(row rowScanner) (SavedQuery, error) {
	var q SavedQuery
	var selectJSON, excludeJSON string
	if err := row.Scan(
		&q.ID, &q.Name, &selectJSON, &excludeJSON, &q.Pattern,
		&q.IgnoreCase, &q.InvertMatch, &q.IgnoreTagCase,
	); err != nil {
		return SavedQuery{}, err
	}
	if err := json.Unmarshal([]byte(selectJSON), &q.SelectTags); err != nil {
		return SavedQuery{}, fmt.Errorf("unmarshal select_tags: %w", err)
	}
	if err := json.Unmarshal([]byte(excludeJSON), &q.ExcludeTags); err != nil {
		return SavedQuery{}, fmt.Errorf("unmarshal exclude_tags: %w", err)
	}
	return q, nil
}
