package vault

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
	"github.com/SimoHellgren/tagumori/internal/query/executor"
	"github.com/SimoHellgren/tagumori/internal/query/parser"
	"github.com/SimoHellgren/tagumori/internal/query/planner"
	"github.com/SimoHellgren/tagumori/internal/store"
)

// Vault is the orchestration facade over a Store: it owns no state of its
// own beyond the store handle (§5 — the store connection is the single
// mutable resource, owned by the caller).
type Vault struct {
	store *store.Store
}

// Open wraps an already-opened Store as a Vault.
func Open(s *store.Store) *Vault {
	return &Vault{store: s}
}

// AddTagsToFiles get-or-creates files, parses the comma-joined tag string
// with the storage-safe parser, attaches the resulting tree to every file,
// and optionally materializes the tagalong closure over the affected files
// (§4.6 add_tags_to_files).
func (v *Vault) AddTagsToFiles(ctx context.Context, files []string, tags []string, applyTagalongs bool) error {
	return v.store.WithTx(ctx, func(tx *sql.Tx) error {
		return v.addTagsToFiles(ctx, tx, files, tags, applyTagalongs)
	})
}

func (v *Vault) addTagsToFiles(ctx context.Context, tx *sql.Tx, files []string, tags []string, applyTagalongs bool) error {
	fileRows, err := store.GetOrCreateFiles(ctx, tx, files)
	if err != nil {
		return wrapErr(err)
	}

	node, err := parser.ParseForStorage(strings.Join(tags, ","))
	if err != nil {
		return wrapErr(err)
	}

	for _, f := range fileRows {
		if err := attachTree(ctx, tx, f.ID, node, nil); err != nil {
			return wrapErr(err)
		}
	}

	if applyTagalongs {
		fileIDs := make([]int64, len(fileRows))
		for i, f := range fileRows {
			fileIDs[i] = f.ID
		}
		if err := store.ApplyTagalongs(ctx, tx, fileIDs); err != nil {
			return wrapErr(err)
		}
	}

	return nil
}

// attachTree walks node (a storage-safe Tag/And tree) and attaches each Tag
// as a FileTag under parentID, recursing into Children — a direct
// transliteration of attach_tree.
func attachTree(ctx context.Context, tx *sql.Tx, fileID int64, node ast.Expr, parentID *int64) error {
	switch n := node.(type) {
	case *ast.Tag:
		tag, err := store.GetOrCreateTag(ctx, tx, n.Name)
		if err != nil {
			return err
		}
		id, err := store.AttachFileTag(ctx, tx, fileID, tag.ID, parentID)
		if err != nil {
			return err
		}
		if n.Children != nil {
			return attachTree(ctx, tx, fileID, n.Children, &id)
		}
		return nil

	case *ast.And:
		for _, op := range n.Operands {
			if err := attachTree(ctx, tx, fileID, op, parentID); err != nil {
				return err
			}
		}
		return nil

	default:
		// unreachable: ParseForStorage already rejected anything else.
		return fmt.Errorf("attach tree: unexpected node %T", node)
	}
}

// RemoveTagsFromFiles resolves every root-to-leaf path of the parsed
// expression against each file and detaches the terminal FileTag if present
// (§4.6 remove_tags_from_files). Files that don't exist are silently
// skipped, per GetFilesByPath's semantics.
func (v *Vault) RemoveTagsFromFiles(ctx context.Context, files []string, tags []string) error {
	return v.store.WithTx(ctx, func(tx *sql.Tx) error {
		fileRows, err := store.GetFilesByPath(ctx, tx, files)
		if err != nil {
			return wrapErr(err)
		}

		node, err := parser.ParseForStorage(strings.Join(tags, ","))
		if err != nil {
			return wrapErr(err)
		}

		paths := astToPaths(node, nil)

		for _, f := range fileRows {
			for _, path := range paths {
				id, ok, err := store.ResolvePath(ctx, tx, f.ID, path)
				if err != nil {
					return wrapErr(err)
				}
				if ok {
					if err := store.DetachFileTag(ctx, tx, id); err != nil {
						return wrapErr(err)
					}
				}
			}
		}
		return nil
	})
}

// SetTagsOnFiles computes the desired set of tag paths (with their
// prefixes), deletes the set-difference existing-minus-desired per file,
// then attaches the desired
// tree via AddTagsToFiles — removal precedes attachment so tagalongs
// materialized by the attach step are not immediately wiped (§4.6
// set_tags_on_files).
func (v *Vault) SetTagsOnFiles(ctx context.Context, files []string, tags []string, applyTagalongs bool) error {
	return v.store.WithTx(ctx, func(tx *sql.Tx) error {
		node, err := parser.ParseForStorage(strings.Join(tags, ","))
		if err != nil {
			return wrapErr(err)
		}
		desired := pathSet(astToPaths(node, nil))

		fileRows, err := store.GetOrCreateFiles(ctx, tx, files)
		if err != nil {
			return wrapErr(err)
		}

		fileIDs := make([]int64, len(fileRows))
		for i, f := range fileRows {
			fileIDs[i] = f.ID
		}

		dbTags, err := store.GetFileTagsByFileIDs(ctx, tx, fileIDs)
		if err != nil {
			return wrapErr(err)
		}

		for _, f := range fileRows {
			existing := pathSet(dbTagsToPaths(dbTags[f.ID]))

			for p := range existing {
				if desired[p] {
					continue
				}
				path := splitPathKey(p)
				id, ok, err := store.ResolvePath(ctx, tx, f.ID, path)
				if err != nil {
					return wrapErr(err)
				}
				if ok {
					if err := store.DetachFileTag(ctx, tx, id); err != nil {
						return wrapErr(err)
					}
				}
			}
		}

		return v.addTagsToFiles(ctx, tx, files, tags, applyTagalongs)
	})
}

// DropFileTags drops every FileTag of each named file, optionally deleting
// the File row itself (§4.6 drop_file_tags).
func (v *Vault) DropFileTags(ctx context.Context, files []string, retainFile bool) error {
	return v.store.WithTx(ctx, func(tx *sql.Tx) error {
		fileRows, err := store.GetFilesByPath(ctx, tx, files)
		if err != nil {
			return wrapErr(err)
		}

		for _, f := range fileRows {
			if err := store.DropFileTagsForFile(ctx, tx, f.ID); err != nil {
				return wrapErr(err)
			}
			if !retainFile {
				if err := store.DeleteFile(ctx, tx, f.ID); err != nil {
					return wrapErr(err)
				}
			}
		}
		return nil
	})
}

// FileTags is a file's path and its reconstructed tag tree.
type FileTags struct {
	Path string
	Tree ast.Expr
}

// ListFiles resolves each named file and returns its reconstructed tag tree
// (§4.6 get_files_with_tags).
func (v *Vault) ListFiles(ctx context.Context, files []string) ([]FileTags, error) {
	db := v.store.DB()

	fileRows, err := store.GetFilesByPath(ctx, db, files)
	if err != nil {
		return nil, wrapErr(err)
	}

	ids := make([]int64, len(fileRows))
	for i, f := range fileRows {
		ids[i] = f.ID
	}

	byFile, err := store.GetFileTagsByFileIDs(ctx, db, ids)
	if err != nil {
		return nil, wrapErr(err)
	}

	out := make([]FileTags, len(fileRows))
	for i, f := range fileRows {
		out[i] = FileTags{Path: f.Path, Tree: dbToAST(byFile[f.ID])}
	}
	return out, nil
}

// ExecuteQuery composes select/exclude tag strings into a single query
// string, runs it through parser->planner->executor when non-empty (else
// lists every file), and applies a regex post-filter on the path XORed with
// invertMatch, returning sorted paths (§4.6 execute_query).
func (v *Vault) ExecuteQuery(ctx context.Context, selects, excludes []string, ignoreTagCase bool, pattern string, ignoreCase, invertMatch bool) ([]string, error) {
	db := v.store.DB()

	var parts []string
	if len(selects) > 0 {
		parts = append(parts, strings.Join(selects, "|"))
	}
	if len(excludes) > 0 {
		negated := make([]string, len(excludes))
		for i, e := range excludes {
			negated[i] = "!" + e
		}
		parts = append(parts, strings.Join(negated, "|"))
	}
	queryStr := strings.Join(parts, ",")

	var fileRows []store.File
	if queryStr != "" {
		expr, err := parser.Parse(queryStr)
		if err != nil {
			return nil, wrapErr(err)
		}
		plan, err := planner.ToQueryPlan(expr)
		if err != nil {
			return nil, wrapErr(err)
		}
		plan = planner.Simplify(plan)

		bm, err := executor.Execute(ctx, db, plan, !ignoreTagCase)
		if err != nil {
			return nil, wrapErr(err)
		}

		ids := make([]int64, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			ids = append(ids, int64(it.Next()))
		}
		fileRows, err = store.GetFiles(ctx, db, ids)
		if err != nil {
			return nil, wrapErr(err)
		}
	} else {
		var err error
		fileRows, err = store.GetAllFiles(ctx, db)
		if err != nil {
			return nil, wrapErr(err)
		}
	}

	regex, err := compilePattern(pattern, ignoreCase)
	if err != nil {
		return nil, Error{Kind: InvalidArgument, Message: err.Error()}
	}

	var out []string
	for _, f := range fileRows {
		matches := regex == nil || regex.MatchString(f.Path)
		if matches != invertMatch {
			out = append(out, f.Path)
		}
	}
	sort.Strings(out)
	return out, nil
}

// compilePattern mirrors filetags' compile_pattern: an empty pattern is
// treated as "match everything" (nil regex), otherwise compiled with
// case-insensitivity when ignoreCase is set.
func compilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// SaveQuery persists a named query for later replay, honoring force per
// §4.6/§7 Conflict.
func (v *Vault) SaveQuery(ctx context.Context, q store.SavedQuery, force bool) error {
	err := v.store.WithTx(ctx, func(tx *sql.Tx) error {
		if !force {
			if _, err := store.GetSavedQueryByName(ctx, tx, q.Name); err == nil {
				return Error{Kind: Conflict, Message: fmt.Sprintf("saved query %q already exists", q.Name)}
			}
		}
		return store.CreateSavedQuery(ctx, tx, q, force)
	})
	return wrapErr(err)
}

// RunSavedQuery looks up a saved query by name and executes it.
func (v *Vault) RunSavedQuery(ctx context.Context, name string) ([]string, error) {
	q, err := store.GetSavedQueryByName(ctx, v.store.DB(), name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return v.ExecuteQuery(ctx, q.SelectTags, q.ExcludeTags, q.IgnoreTagCase, q.Pattern, q.IgnoreCase, q.InvertMatch)
}

// RelocateFile finds a file whose recorded inode/device match a file found
// under searchRoot and updates its path — the relocation collaborator of
// §6.3, driven here by a real directory walk rather than left unimplemented,
// since the walk itself has no algorithmic content beyond filepath.WalkDir.
func (v *Vault) RelocateFile(ctx context.Context, fileID int64, searchRoot string) (string, error) {
	db := v.store.DB()

	fileRows, err := store.GetFiles(ctx, db, []int64{fileID})
	if err != nil {
		return "", wrapErr(err)
	}
	if len(fileRows) == 0 {
		return "", Error{Kind: NotFound, Message: fmt.Sprintf("file %d not found", fileID)}
	}
	f := fileRows[0]
	if f.Inode == nil || f.Device == nil {
		return "", Error{Kind: InvalidArgument, Message: "file has no recorded inode/device"}
	}

	found, err := findByInode(searchRoot, *f.Inode, *f.Device)
	if err != nil {
		return "", wrapErr(err)
	}
	if found == "" {
		return "", Error{Kind: NotFound, Message: "no file under search root matches the recorded inode/device"}
	}

	if err := store.UpdateFile(ctx, db, f.ID, found, f.Inode, f.Device); err != nil {
		return "", wrapErr(err)
	}
	return found, nil
}

// pathSet returns the keys of every path and of each of its prefixes, so
// that diffing two sets also catches an interior node (e.g. `mood` of
// `mood[calm]`) that no desired path passes through.
func pathSet(paths [][]string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		for i := 1; i <= len(p); i++ {
			set[pathKey(p[:i])] = true
		}
	}
	return set
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}

func splitPathKey(key string) []string {
	return strings.Split(key, "\x00")
}
