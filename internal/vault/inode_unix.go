//go:build unix

package vault

import "golang.org/x/sys/unix"

// statPathInodeDevice mirrors store's statInodeDevice but reports a found
// flag instead of pointers, for use during a relocation walk.
func statPathInodeDevice(path string) (inode, device int64, ok bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, 0, false
	}
	return int64(st.Ino), int64(st.Dev), true
}
