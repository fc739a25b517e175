package vault

import (
	"github.com/SimoHellgren/tagumori/internal/query/ast"
	"github.com/SimoHellgren/tagumori/internal/store"
)

// astToPaths flattens a storage-safe Tag/And tree into the set of
// root-to-leaf paths it denotes — a direct transliteration of
// _ast_to_paths.
func astToPaths(node ast.Expr, prefix []string) [][]string {
	switch n := node.(type) {
	case *ast.Tag:
		path := append(append([]string(nil), prefix...), n.Name)
		if n.Children == nil {
			return [][]string{path}
		}
		return astToPaths(n.Children, path)

	case *ast.And:
		var out [][]string
		for _, op := range n.Operands {
			out = append(out, astToPaths(op, prefix)...)
		}
		return out

	default:
		// unreachable for storage-safe trees.
		return nil
	}
}

// dbToAST reconstructs a storage-safe Tag/And tree from a flat slice of
// FileTagNode rows, wiring parent/child relationships by id — a direct
// transliteration of _db_to_ast.
func dbToAST(rows []store.FileTagNode) ast.Expr {
	nodes := make(map[int64]*ast.Tag, len(rows))
	children := make(map[int64][]*ast.Tag)
	var roots []*ast.Tag

	for _, row := range rows {
		tag := &ast.Tag{Name: row.Name}
		nodes[row.ID] = tag
		if row.ParentID == nil {
			roots = append(roots, tag)
		} else {
			children[*row.ParentID] = append(children[*row.ParentID], tag)
		}
	}

	for id, tag := range nodes {
		kids := children[id]
		switch len(kids) {
		case 0:
			// no children
		case 1:
			tag.Children = kids[0]
		default:
			ops := make([]ast.Expr, len(kids))
			for i, k := range kids {
				ops[i] = k
			}
			tag.Children = &ast.And{Operands: ops}
		}
	}

	if len(roots) == 1 {
		return roots[0]
	}
	ops := make([]ast.Expr, len(roots))
	for i, r := range roots {
		ops[i] = r
	}
	return &ast.And{Operands: ops}
}

// dbTagsToPaths is dbToAST followed by astToPaths — a direct
// transliteration of _db_tags_to_paths.
func dbTagsToPaths(rows []store.FileTagNode) [][]string {
	if len(rows) == 0 {
		return nil
	}
	return astToPaths(dbToAST(rows), nil)
}
