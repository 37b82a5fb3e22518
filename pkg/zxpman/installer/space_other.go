//go:build !(darwin || linux)

package installer

// availableSpace is unavailable on this platform; the free-space
// precheck is skipped.
func availableSpace(path string) (avail int64, ok bool) {
	return 0, false
}
