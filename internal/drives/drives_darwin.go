//go:build darwin

package drives

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// List returns every local /dev-backed mount, ordered by mount path.
// Network shares (no MNT_LOCAL) and synthetic volumes are excluded.
func List() ([]Volume, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("listing mounts: %w", err)
	}

	stats := make([]unix.Statfs_t, n)

	n, err = unix.Getfsstat(stats, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("listing mounts: %w", err)
	}

	var vols []Volume

	for _, st := range stats[:n] {
		if st.Flags&unix.MNT_LOCAL == 0 || st.Flags&unix.MNT_DONTBROWSE != 0 {
			continue
		}

		device := unix.ByteSliceToString(st.Mntfromname[:])
		if !strings.HasPrefix(device, "/dev/") {
			continue
		}

		bsize := uint64(st.Bsize)
		total := st.Blocks * bsize
		if total == 0 {
			continue
		}

		vols = append(vols, Volume{
			ID:    device,
			Root:  unix.ByteSliceToString(st.Mntonname[:]),
			Total: total,
			Used:  (st.Blocks - st.Bfree) * bsize,
			Free:  st.Bavail * bsize,
		})
	}

	return sortVolumes(vols), nil
}
