package store

import (
	"context"
	"fmt"
)

// CreateTagalong records that tagging a file with tag_id should imply
// tagalong_id (§4.5). The pair is idempotent: creating an edge twice is a
// no-op.
func CreateTagalong(ctx context.Context, ex execer, tagID, tagalongID int64) error {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO tagalong (tag_id, tagalong_id) VALUES (?, ?)
		ON CONFLICT (tag_id, tagalong_id) DO NOTHING
	`, tagID, tagalongID); err != nil {
		return fmt.Errorf("create tagalong %d -> %d: %w", tagID, tagalongID, err)
	}
	return nil
}

// DeleteTagalong removes a single implication edge; it does not affect
// file_tag rows already materialized by an earlier ApplyTagalongs (§4.5:
// tagalong removal is not retroactive).
func DeleteTagalong(ctx context.Context, ex execer, tagID, tagalongID int64) error {
	if _, err := ex.ExecContext(ctx,
		`DELETE FROM tagalong WHERE tag_id = ? AND tagalong_id = ?`,
		tagID, tagalongID,
	); err != nil {
		return fmt.Errorf("delete tagalong %d -> %d: %w", tagID, tagalongID, err)
	}
	return nil
}

// GetAllTagalongNames returns every (tag, tagalong) pair as tag names,
// ordered for deterministic listing output.
func GetAllTagalongNames(ctx context.Context, ex execer) ([][2]string, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT t1.name, t2.name
		FROM tagalong
		JOIN tag t1 ON t1.id = tagalong.tag_id
		JOIN tag t2 ON t2.id = tagalong.tagalong_id
		ORDER BY t1.name, t2.name
	`)
	if err != nil {
		return nil, fmt.Errorf("get all tagalongs: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("scan tagalong: %w", err)
		}
		pairs = append(pairs, [2]string{a, b})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// ApplyTagalongs materializes the transitive closure of tagalong
// implications as new FileTag rows attached at the same parent position as
// the originating attachment, for the given files (or for every file if
// fileIDs is empty). It is the one operation in this package grounded on a
// recursive CTE rather than a handwritten Go closure walk: the closure of
// "tag A implies B implies C..." is naturally expressed as a WITH RECURSIVE
// and is cheaper computed in SQLite than materialized in Go.
//
// Existing FileTag rows are left untouched (INSERT OR IGNORE): applying
// twice, or applying after the file already carries the implied tag
// directly, is a no-op (§4.5, §8(1)).
func ApplyTagalongs(ctx context.Context, ex execer, fileIDs []int64) error {
	query := `
		WITH RECURSIVE implied(tag_id, tagalong_id) AS (
			SELECT tag_id, tagalong_id FROM tagalong
			UNION
			SELECT implied.tag_id, tagalong.tagalong_id
			FROM implied
			JOIN tagalong ON tagalong.tag_id = implied.tagalong_id
		)
		INSERT OR IGNORE INTO file_tag (file_id, tag_id, parent_id)
		SELECT file_tag.file_id, implied.tagalong_id, file_tag.parent_id
		FROM file_tag
		JOIN implied ON implied.tag_id = file_tag.tag_id
	`
	var args []any

	if len(fileIDs) > 0 {
		args = make([]any, len(fileIDs))
		for i, id := range fileIDs {
			args[i] = id
		}
		query += fmt.Sprintf(" WHERE file_tag.file_id IN (%s)", placeholders(len(fileIDs)))
	}

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply tagalongs: %w", err)
	}
	return nil
}
