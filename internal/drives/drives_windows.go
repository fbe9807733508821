//go:build windows

package drives

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// List returns every fixed drive letter, in drive-letter order. Removable,
// network, optical and RAM drives are excluded by GetDriveType.
func List() ([]Volume, error) {
	// First call sizes the buffer; the result is a double-NUL terminated
	// list of NUL separated root paths ("C:\", "D:\", ...).
	n, err := windows.GetLogicalDriveStrings(0, nil)
	if err != nil {
		return nil, fmt.Errorf("listing drives: %w", err)
	}

	buf := make([]uint16, n+1)

	if _, err := windows.GetLogicalDriveStrings(uint32(len(buf)), &buf[0]); err != nil {
		return nil, fmt.Errorf("listing drives: %w", err)
	}

	var vols []Volume

	for _, root := range splitNulList(buf) {
		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		if windows.GetDriveType(rootPtr) != windows.DRIVE_FIXED {
			continue
		}

		usage, err := Capacity(root)
		if err != nil {
			continue
		}

		id := root
		if len(id) >= 2 && id[1] == ':' {
			id = id[:2]
		}

		vols = append(vols, Volume{
			ID:    id,
			Root:  root,
			Total: usage.Total,
			Used:  usage.Used,
			Free:  usage.Free,
		})
	}

	return sortVolumes(vols), nil
}

// Capacity probes the capacity of the volume holding path.
func Capacity(path string) (Usage, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Usage{}, fmt.Errorf("disk space for %s: %w", path, err)
	}

	var free, total, totalFree uint64

	if err := windows.GetDiskFreeSpaceEx(pathPtr, &free, &total, &totalFree); err != nil {
		return Usage{}, fmt.Errorf("disk space for %s: %w", path, err)
	}

	if total == 0 {
		return Usage{}, fmt.Errorf("disk space for %s: zero capacity", path)
	}

	return Usage{
		Total: total,
		Used:  total - totalFree,
		Free:  free,
	}, nil
}

// splitNulList splits a double-NUL terminated UTF-16 string list.
func splitNulList(buf []uint16) []string {
	var out []string

	start := 0

	for i, c := range buf {
		if c != 0 {
			continue
		}

		if i > start {
			out = append(out, windows.UTF16ToString(buf[start:i]))
		}

		start = i + 1
	}

	return out
}
