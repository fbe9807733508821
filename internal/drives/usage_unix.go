//go:build linux || darwin

package drives

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Capacity probes the capacity of the filesystem holding path.
func Capacity(path string) (Usage, error) {
	var st unix.Statfs_t

	if err := unix.Statfs(path, &st); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	bsize := uint64(st.Bsize)

	total := st.Blocks * bsize
	if total == 0 {
		return Usage{}, fmt.Errorf("statfs %s: zero capacity", path)
	}

	return Usage{
		Total: total,
		Used:  (st.Blocks - st.Bfree) * bsize,
		Free:  st.Bavail * bsize,
	}, nil
}
