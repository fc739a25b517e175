package vault

import (
	"io/fs"
	"path/filepath"
)

// findByInode walks root looking for a regular file whose stat matches
// (inode, device) — the directory-walk half of relocate_file. Returns ""
// if no file under root matches.
func findByInode(root string, inode, device int64) (string, error) {
	var found string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fileInode, fileDevice, ok := statPathInodeDevice(path)
		if !ok || fileInode != inode || fileDevice != device {
			return nil
		}

		found = path
		return filepath.SkipAll
	})
	if err != nil {
		return "", err
	}

	return found, nil
}
