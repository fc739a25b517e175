package store

import (
	"context"
	"fmt"
)

// File is a row of the file table (§3): path is unique; inode/device are
// captured at insertion time and may be null.
type File struct {
	ID     int64
	Path   string
	Inode  *int64
	Device *int64
}

// GetOrCreateFile inserts path if it doesn't exist yet, capturing
// inode/device, and returns the resulting row either way — an idempotent
// get-or-create per §4.1/§8(1) applied to files.
func GetOrCreateFile(ctx context.Context, ex execer, path string) (File, error) {
	inode, device := statInodeDevice(path)

	row := ex.QueryRowContext(ctx, `
		INSERT INTO file (path, inode, device) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET path = path
		RETURNING id, path, inode, device
	`, path, inode, device)

	var f File
	if err := row.Scan(&f.ID, &f.Path, &f.Inode, &f.Device); err != nil {
		return File{}, fmt.Errorf("get or create file %s: %w", path, err)
	}
	return f, nil
}

// GetOrCreateFiles is the batch form of GetOrCreateFile.
func GetOrCreateFiles(ctx context.Context, ex execer, paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := GetOrCreateFile(ctx, ex, p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GetFileByPath looks up a file by its unique path.
func GetFileByPath(ctx context.Context, ex execer, path string) (File, error) {
	row := ex.QueryRowContext(ctx, `SELECT id, path, inode, device FROM file WHERE path = ?`, path)
	var f File
	if err := row.Scan(&f.ID, &f.Path, &f.Inode, &f.Device); err != nil {
		return File{}, fmt.Errorf("%w: file %s", ErrNotFound, path)
	}
	return f, nil
}

// GetFilesByPath returns the rows that exist among paths, skipping the rest
// (mirrors the original's get_many_by_path: non-existing files are silently
// omitted rather than erroring).
func GetFilesByPath(ctx context.Context, ex execer, paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	args := make([]any, len(paths))
	for i, p := range paths {
		args[i] = p
	}

	rows, err := ex.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, path, inode, device FROM file WHERE path IN (%s) ORDER BY path`,
		placeholders(len(paths)),
	), args...)
	if err != nil {
		return nil, fmt.Errorf("get files by path: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// GetFiles returns file rows by id, ordered by path.
func GetFiles(ctx context.Context, ex execer, ids []int64) ([]File, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := ex.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, path, inode, device FROM file WHERE id IN (%s) ORDER BY path`,
		placeholders(len(ids)),
	), args...)
	if err != nil {
		return nil, fmt.Errorf("get files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// GetAllFiles returns every file row, ordered by path.
func GetAllFiles(ctx context.Context, ex execer) ([]File, error) {
	rows, err := ex.QueryContext(ctx, `SELECT id, path, inode, device FROM file ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("get all files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// DeleteFile removes a file row; FileTags referencing it cascade (§3, §8(3)).
func DeleteFile(ctx context.Context, ex execer, id int64) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM file WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	return nil
}

// UpdateFile rewrites a file's path/inode/device — used by
// vault.RelocateFile once its directory walk has located the file's new path.
func UpdateFile(ctx context.Context, ex execer, id int64, path string, inode, device *int64) error {
	if _, err := ex.ExecContext(ctx,
		`UPDATE file SET path = ?, inode = ?, device = ? WHERE id = ?`,
		path, inode, device, id,
	); err != nil {
		return fmt.Errorf("update file %d: %w", id, err)
	}
	return nil
}

// FindFileByInode looks up a file by (inode, device) — the lookup half of
// out-of-band move detection described in §6.3. vault.RelocateFile does
// its own directory walk by stat and does not call this.
func FindFileByInode(ctx context.Context, ex execer, inode, device int64) (File, bool, error) {
	row := ex.QueryRowContext(ctx,
		`SELECT id, path, inode, device FROM file WHERE inode = ? AND device = ?`,
		inode, device,
	)
	var f File
	if err := row.Scan(&f.ID, &f.Path, &f.Inode, &f.Device); err != nil {
		return File{}, false, nil
	}
	return f, true, nil
}

func scanFiles(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]File, error) {
	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Inode, &f.Device); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}
