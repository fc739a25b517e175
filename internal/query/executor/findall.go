package executor

import (
	"context"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/SimoHellgren/tagumori/internal/query/planner"
)

// findAll evaluates a single TagPath's segments against file_tag via one
// recursive query: a `path` CTE carries (depth, tag_name, is_any, is_root,
// is_leaf) per segment, and a `match` CTE seeds at depth 1 then walks
// parent->child file_tag edges one depth at a time. This is a direct
// transliteration of the original's find_all — a single round trip rather
// than per-depth queries from Go, per §9 "recursive closure ... kept
// inside the store".
func findAll(ctx context.Context, db queryer, path []planner.Segment, caseSensitive bool) (*roaring.Bitmap, error) {
	if len(path) == 0 {
		return roaring.New(), nil
	}

	collate := "COLLATE NOCASE"
	if caseSensitive {
		collate = ""
	}

	valuesPlaceholders := make([]string, len(path))
	args := make([]any, 0, len(path)*5)
	for i, seg := range path {
		valuesPlaceholders[i] = "(?,?,?,?,?)"
		name, isAny, isRoot, isLeaf := segmentValue(seg)
		args = append(args, i+1, name, isAny, isRoot, isLeaf)
	}

	query := `
		WITH path(depth, tag_name, is_any, is_root, is_leaf) AS (
			VALUES ` + strings.Join(valuesPlaceholders, ", ") + `
		),

		match(file_id, id, depth) AS (
			SELECT
				file_tag.file_id,
				file_tag.id,
				1
			FROM file_tag
			JOIN tag ON tag.id = file_tag.tag_id
			JOIN path
				ON path.depth = 1
				AND (
					path.tag_name = tag.name ` + collate + `
					OR path.is_any = 1
				)
				AND (
					path.is_root = 0
					OR file_tag.parent_id IS NULL
				)

			UNION ALL

			SELECT
				child.file_id,
				child.id,
				parent.depth + 1
			FROM match parent
			JOIN file_tag child
				ON child.parent_id = parent.id
				AND child.file_id = parent.file_id
			JOIN tag ON child.tag_id = tag.id
			JOIN path
				ON path.depth = parent.depth + 1
				AND (
					path.tag_name = tag.name ` + collate + `
					OR path.is_any = 1
				)
		)

		SELECT DISTINCT match.file_id FROM match
		JOIN path ON path.depth = match.depth
		WHERE match.depth = (SELECT MAX(depth) FROM path)
		AND (
			path.is_leaf = 0
			OR NOT EXISTS (SELECT 1 FROM file_tag WHERE file_tag.parent_id = match.id)
		)
	`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := roaring.New()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result.Add(uint32(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// segmentValue returns (name, is_any, is_root, is_leaf) for a single
// segment, matching the original's _build_value.
func segmentValue(seg planner.Segment) (name any, isAny, isRoot, isLeaf int) {
	switch v := seg.(type) {
	case planner.SegTag:
		return v.Name, 0, boolInt(v.IsRoot), boolInt(v.IsLeaf)
	case planner.SegWildcardSingle:
		return nil, 1, boolInt(v.IsRoot), boolInt(v.IsLeaf)
	default:
		// SegWildcardPath/SegWildcardBounded never reach here: the planner
		// rejects them with ErrNotImplemented before a plan is executed.
		return nil, 1, 0, 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
