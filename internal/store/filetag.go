package store

import (
	"context"
	"fmt"
)

// FileTag is one occurrence of a tag for a file, positioned at a root
// (ParentID == nil) or under another FileTag of the same file (§3).
type FileTag struct {
	ID       int64
	FileID   int64
	TagID    int64
	ParentID *int64
}

// FileTagNode is a FileTag joined with its tag's name — what callers
// reconstructing a tag tree actually need (ResolvePath, the service facade's
// AST round-trip).
type FileTagNode struct {
	ID       int64
	Name     string
	ParentID *int64
}

// AttachFileTag inserts (file_id, tag_id, parent_id) or returns the existing
// row's id unchanged — idempotent per §4.1/§8(1). parent_id, if set, must
// reference a FileTag of the same file_id (caller's responsibility; the
// planner/attach-tree walk below always satisfies this since children are
// attached strictly after their parent, per §5).
func AttachFileTag(ctx context.Context, ex execer, fileID, tagID int64, parentID *int64) (int64, error) {
	var row interface {
		Scan(...any) error
	}

	if parentID == nil {
		row = ex.QueryRowContext(ctx, `
			INSERT INTO file_tag (file_id, tag_id, parent_id) VALUES (?, ?, NULL)
			ON CONFLICT (file_id, tag_id) WHERE parent_id IS NULL
			DO UPDATE SET file_id = file_id
			RETURNING id
		`, fileID, tagID)
	} else {
		row = ex.QueryRowContext(ctx, `
			INSERT INTO file_tag (file_id, tag_id, parent_id) VALUES (?, ?, ?)
			ON CONFLICT (file_id, tag_id, parent_id) WHERE parent_id IS NOT NULL
			DO UPDATE SET file_id = file_id
			RETURNING id
		`, fileID, tagID, *parentID)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("attach file_tag (file=%d tag=%d parent=%v): %w", fileID, tagID, parentID, err)
	}
	return id, nil
}

// DetachFileTag deletes a node; ON DELETE CASCADE removes its descendants
// (§3, §8(2)). Detaching an id that no longer exists is a no-op (§5
// idempotent retries).
func DetachFileTag(ctx context.Context, ex execer, fileTagID int64) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM file_tag WHERE id = ?`, fileTagID); err != nil {
		return fmt.Errorf("detach file_tag %d: %w", fileTagID, err)
	}
	return nil
}

// ResolvePath walks path from a root and returns the id of the terminal
// node if the full chain exists for file_id, else (0, false). Matching is
// exact on tag name (§4.1).
func ResolvePath(ctx context.Context, ex execer, fileID int64, path []string) (int64, bool, error) {
	var parentID *int64

	for _, name := range path {
		row := ex.QueryRowContext(ctx, `
			SELECT file_tag.id
			FROM file_tag
			JOIN tag ON file_tag.tag_id = tag.id
			WHERE file_tag.file_id = ?
			AND tag.name = ?
			AND (
				file_tag.parent_id = ?
				OR (file_tag.parent_id IS NULL AND ? IS NULL)
			)
		`, fileID, name, parentID, parentID)

		var id int64
		if err := row.Scan(&id); err != nil {
			return 0, false, nil
		}
		parentID = &id
	}

	if parentID == nil {
		// empty path: no terminal node.
		return 0, false, nil
	}
	return *parentID, true, nil
}

// GetFileTagsByFileID returns every FileTag of a file, ordered so that a
// caller can reconstruct the forest in one pass (parents never come after
// their children at the same depth — the ordering matches the original's
// "ORDER BY parent_id, name").
func GetFileTagsByFileID(ctx context.Context, ex execer, fileID int64) ([]FileTagNode, error) {
	return getFileTagsWhere(ctx, ex, `WHERE file_tag.file_id = ?`, fileID)
}

// GetFileTagsByFileIDs is the batch form, ordered by file_id so callers can
// group consecutive rows per file (mirrors the original's groupby usage).
func GetFileTagsByFileIDs(ctx context.Context, ex execer, fileIDs []int64) (map[int64][]FileTagNode, error) {
	result := make(map[int64][]FileTagNode)
	if len(fileIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(fileIDs))
	for i, id := range fileIDs {
		args[i] = id
	}

	rows, err := ex.QueryContext(ctx, fmt.Sprintf(`
		SELECT file_tag.id, file_tag.file_id, tag.name, file_tag.parent_id
		FROM file_tag
		JOIN tag ON tag.id = file_tag.tag_id
		WHERE file_tag.file_id IN (%s)
		ORDER BY file_tag.file_id, file_tag.parent_id, tag.name
	`, placeholders(len(fileIDs))), args...)
	if err != nil {
		return nil, fmt.Errorf("get file_tags by file ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n FileTagNode
		var fileID int64
		if err := rows.Scan(&n.ID, &fileID, &n.Name, &n.ParentID); err != nil {
			return nil, fmt.Errorf("scan file_tag: %w", err)
		}
		result[fileID] = append(result[fileID], n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func getFileTagsWhere(ctx context.Context, ex execer, where string, args ...any) ([]FileTagNode, error) {
	rows, err := ex.QueryContext(ctx, fmt.Sprintf(`
		SELECT file_tag.id, tag.name, file_tag.parent_id
		FROM file_tag
		JOIN tag ON tag.id = file_tag.tag_id
		%s
		ORDER BY file_tag.parent_id, tag.name
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("get file_tags: %w", err)
	}
	defer rows.Close()

	var nodes []FileTagNode
	for rows.Next() {
		var n FileTagNode
		if err := rows.Scan(&n.ID, &n.Name, &n.ParentID); err != nil {
			return nil, fmt.Errorf("scan file_tag: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// DropFileTagsForFile deletes every FileTag of file_id.
func DropFileTagsForFile(ctx context.Context, ex execer, fileID int64) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM file_tag WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("drop file_tags for file %d: %w", fileID, err)
	}
	return nil
}

// ReplaceTagInFileTags repurposes every FileTag referencing oldTagID to
// reference newTagID instead — used when two tags are merged.
func ReplaceTagInFileTags(ctx context.Context, ex execer, oldTagID, newTagID int64) error {
	if _, err := ex.ExecContext(ctx, `UPDATE file_tag SET tag_id = ? WHERE tag_id = ?`, newTagID, oldTagID); err != nil {
		return fmt.Errorf("replace tag %d with %d in file_tag: %w", oldTagID, newTagID, err)
	}
	return nil
}
