package analyzer

import (
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

// Entry is a single filesystem record produced by the walker. Entries are
// passed by value and never mutated, so they are safe to fan out to every
// aggregator from concurrent walk workers. Directory records carry only path
// and depth; size and mod time are populated for files.
type Entry struct {
	// Path is the absolute path of the entry.
	Path string
	// Size is the file size in bytes, 0 for directories.
	Size int64
	// IsDir reports whether the entry is a directory.
	IsDir bool
	// ModTime is the modification time of the file.
	ModTime time.Time
	// Depth is the distance from the volume root (a file directly under
	// the root has depth 1).
	Depth int
}

// FolderSize is the cumulative weight of one folder near the volume root.
// Size covers every file transitively beneath the folder regardless of how
// deep it sits.
type FolderSize struct {
	// Path is the folder path.
	Path string `json:"path"`
	// Depth is the folder's distance from the volume root, 1-based.
	Depth int `json:"depth"`
	// Size is the cumulative size of all files below the folder.
	Size int64 `json:"size"`
	// Files is the cumulative number of files below the folder.
	Files int64 `json:"files"`
}

// ExtensionStat is one cell of the per-extension space histogram.
type ExtensionStat struct {
	// Ext is the lower-cased extension without the leading dot; empty for
	// extensionless files.
	Ext string `json:"ext"`
	// Size is the cumulative size of all files in the bucket.
	Size int64 `json:"size"`
	// Count is the number of files in the bucket.
	Count int64 `json:"count"`
}

// FileInfo identifies one file in the top, recent or stale lists.
type FileInfo struct {
	// Path is the absolute file path.
	Path string `json:"path"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// ModTime is the modification time of the file.
	ModTime time.Time `json:"mod_time"`
}

// DriveReport is the immutable result of scanning one volume. Once built it
// is never mutated; consumers may share it freely.
type DriveReport struct {
	// Volume carries the identity and capacity figures of the scanned volume.
	Volume drives.Volume `json:"volume"`
	// GeneratedAt is the single time anchor captured at scan start; the
	// recent and stale windows are measured against it.
	GeneratedAt time.Time `json:"generated_at"`
	// Folders lists qualifying folders, largest first.
	Folders []FolderSize `json:"folders"`
	// Extensions lists qualifying extension buckets, largest first.
	Extensions []ExtensionStat `json:"extensions"`
	// TopFiles lists the largest files, largest first.
	TopFiles []FileInfo `json:"top_files"`
	// RecentFiles lists large files modified within the recent window.
	RecentFiles []FileInfo `json:"recent_files"`
	// StaleFiles lists large files untouched for at least the stale window.
	StaleFiles []FileInfo `json:"stale_files"`
	// FileCount is the number of files seen by the walk.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories seen by the walk.
	DirCount int64 `json:"dir_count"`
	// TotalBytes is the cumulative size of all files seen by the walk.
	TotalBytes int64 `json:"total_bytes"`
	// ErrorCount is the number of unreadable entries skipped by the walk.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the wall time the scan took.
	Elapsed time.Duration `json:"elapsed"`
	// Truncated reports that the walk was interrupted and the aggregates
	// cover only the entries seen before cancellation.
	Truncated bool `json:"truncated"`
}

// Summary collects the reports of one multi-volume run.
type Summary struct {
	// Reports holds one report per successfully scanned volume, in
	// enumeration order.
	Reports []*DriveReport `json:"reports"`
	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration `json:"elapsed"`
}
