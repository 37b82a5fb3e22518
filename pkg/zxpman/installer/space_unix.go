//go:build darwin || linux

package installer

import "golang.org/x/sys/unix"

// availableSpace reports the bytes available to unprivileged writers on
// the filesystem holding path. ok is false when the query fails.
func availableSpace(path string) (avail int64, ok bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, false
	}
	return int64(st.Bavail) * int64(st.Bsize), true
}
