package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Tag is a row of the tag table (§3): name is unique, created on first use,
// never auto-deleted.
type Tag struct {
	ID       int64
	Name     string
	Category *string
}

// tagUpdateAllowedColumns is the allow-list enforced by UpdateTag (§7
// Invalid-argument; SPEC_FULL.md C.1).
var tagUpdateAllowedColumns = map[string]bool{
	"name":     true,
	"category": true,
}

// GetOrCreateTag inserts name if missing and returns the resulting row.
func GetOrCreateTag(ctx context.Context, ex execer, name string) (Tag, error) {
	row := ex.QueryRowContext(ctx, `
		INSERT INTO tag (name) VALUES (?)
		ON CONFLICT (name) DO UPDATE SET name = name
		RETURNING id, name, category
	`, name)

	var t Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Category); err != nil {
		return Tag{}, fmt.Errorf("get or create tag %s: %w", name, err)
	}
	return t, nil
}

// GetOrCreateTags is the batch form of GetOrCreateTag.
func GetOrCreateTags(ctx context.Context, ex execer, names []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		t, err := GetOrCreateTag(ctx, ex, n)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// GetTagByName looks up a tag by its unique name.
func GetTagByName(ctx context.Context, ex execer, name string) (Tag, error) {
	row := ex.QueryRowContext(ctx, `SELECT id, name, category FROM tag WHERE name = ?`, name)
	var t Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Category); err != nil {
		return Tag{}, fmt.Errorf("%w: tag %s", ErrNotFound, name)
	}
	return t, nil
}

// DeleteTag removes a tag row; FileTags and tagalong edges referencing it
// cascade (§3, §8(3)).
func DeleteTag(ctx context.Context, ex execer, id int64) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM tag WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

// UpdateTag rewrites the named tags' given columns, rejecting anything
// outside {name, category} (§7 Invalid-argument).
func UpdateTag(ctx context.Context, ex execer, names []string, cols map[string]any) error {
	for col := range cols {
		if !tagUpdateAllowedColumns[col] {
			return fmt.Errorf("forbidden column %q for tag update", col)
		}
	}
	if len(cols) == 0 || len(names) == 0 {
		return nil
	}

	colNames := make([]string, 0, len(cols))
	for col := range cols {
		colNames = append(colNames, col)
	}
	sort.Strings(colNames) // deterministic statement text for tests/logs

	setClauses := make([]string, len(colNames))
	args := make([]any, 0, len(colNames)+len(names))
	for i, col := range colNames {
		setClauses[i] = col + " = ?"
		args = append(args, cols[col])
	}
	for _, n := range names {
		args = append(args, n)
	}

	q := fmt.Sprintf(
		"UPDATE tag SET %s WHERE name IN (%s)",
		strings.Join(setClauses, ", "),
		placeholders(len(names)),
	)

	if _, err := ex.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update tags: %w", err)
	}
	return nil
}
