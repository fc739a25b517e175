//go:build unix

package store

import "golang.org/x/sys/unix"

// statInodeDevice captures inode/device for path, or (nil, nil) if the path
// doesn't exist yet — §6.3: "captured at insertion for out-of-band move
// detection" and may be null for paths that don't exist yet.
func statInodeDevice(path string) (inode, device *int64) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, nil
	}

	i := int64(st.Ino)
	d := int64(st.Dev)
	return &i, &d
}
