// Package drives enumerates the fixed local storage volumes of the machine
// and probes their capacity. Network mounts, removable media and pseudo
// filesystems are filtered out before a volume is reported.
package drives

import "sort"

// Volume describes one fixed local volume.
type Volume struct {
	// ID identifies the volume (drive letter on Windows, device path elsewhere).
	ID string `json:"id"`
	// Root is the path traversal starts from.
	Root string `json:"root"`
	// Total is the volume capacity in bytes.
	Total uint64 `json:"total"`
	// Used is the occupied capacity in bytes.
	Used uint64 `json:"used"`
	// Free is the capacity available to the caller in bytes.
	Free uint64 `json:"free"`
}

// FreePercent returns the free share of the volume, 0..100.
func (v Volume) FreePercent() float64 {
	return Usage{Total: v.Total, Used: v.Used, Free: v.Free}.FreePercent()
}

// Usage holds capacity figures for a single path.
type Usage struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// FreePercent returns the free share of the volume, 0..100.
func (u Usage) FreePercent() float64 {
	if u.Total == 0 {
		return 0
	}

	return 100 * float64(u.Free) / float64(u.Total)
}

// UsedPercent returns the occupied share of the volume, 0..100.
func (u Usage) UsedPercent() float64 {
	if u.Total == 0 {
		return 0
	}

	return 100 * float64(u.Used) / float64(u.Total)
}

// sortVolumes orders volumes by root path so repeated enumerations are stable.
func sortVolumes(vols []Volume) []Volume {
	sort.Slice(vols, func(i, j int) bool {
		return vols[i].Root < vols[j].Root
	})

	return vols
}
