package analyzer

import (
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

const (
	mib int64 = 1 << 20
	gib int64 = 1 << 30
)

// Default thresholds and limits applied by DefaultOptions.
const (
	// DefaultMinFolderSize keeps folders of at least 0.1 GiB.
	DefaultMinFolderSize = gib / 10
	// DefaultMinExtSize keeps extension buckets of at least 0.01 GiB.
	DefaultMinExtSize = gib / 100
	// DefaultMinFileSize keeps files of at least 100 MiB in the recent and
	// stale lists.
	DefaultMinFileSize = 100 * mib
	// DefaultMaxFolderDepth bounds folder reporting to three levels below
	// the volume root.
	DefaultMaxFolderDepth = 3
	// DefaultTopFiles caps the largest-files list.
	DefaultTopFiles = 10
	// DefaultRecentWindow is the age up to which a file counts as recent.
	DefaultRecentWindow = 30 * 24 * time.Hour
	// DefaultStaleWindow is the age from which a file counts as stale.
	DefaultStaleWindow = 180 * 24 * time.Hour
	// DefaultProgressInterval is the progress hook cadence.
	DefaultProgressInterval = 500 * time.Millisecond
)

// Options control a scan. The zero value is usable: missing operational
// fields are filled by defaults, while zero thresholds genuinely mean
// "no threshold".
type Options struct {
	// Volumes enumerates the volumes to scan. Nil means drives.List.
	Volumes func() ([]drives.Volume, error)

	// MinFolderSize excludes folders below this cumulative size.
	MinFolderSize int64
	// MinExtSize excludes extension buckets below this cumulative size.
	MinExtSize int64
	// MinFileSize excludes files below this size from the recent and stale
	// lists.
	MinFileSize int64
	// MaxFolderDepth bounds how far below the volume root folders are
	// reported.
	MaxFolderDepth int
	// TopFiles caps the largest-files list; 0 disables it.
	TopFiles int
	// RecentWindow is the maximum age of a recent file.
	RecentWindow time.Duration
	// StaleWindow is the minimum age of a stale file.
	StaleWindow time.Duration

	// Workers is the walker concurrency per volume; 0 lets the walker pick
	// based on GOMAXPROCS.
	Workers int
	// DriveParallel is the number of volumes scanned at once.
	DriveParallel int
	// ProgressInterval is the cadence of progress callbacks.
	ProgressInterval time.Duration
	// Debug enables walker diagnostics on stdout.
	Debug bool
}

// DefaultOptions returns Options with the stock thresholds filled in.
func DefaultOptions() Options {
	return Options{
		MinFolderSize:    DefaultMinFolderSize,
		MinExtSize:       DefaultMinExtSize,
		MinFileSize:      DefaultMinFileSize,
		MaxFolderDepth:   DefaultMaxFolderDepth,
		TopFiles:         DefaultTopFiles,
		RecentWindow:     DefaultRecentWindow,
		StaleWindow:      DefaultStaleWindow,
		DriveParallel:    1,
		ProgressInterval: DefaultProgressInterval,
	}
}

// setDefaults fills the operational fields a scan cannot run without.
// Thresholds and TopFiles are left alone so explicit zeroes keep their
// meaning.
func (o *Options) setDefaults() {
	if o.Volumes == nil {
		o.Volumes = drives.List
	}
	if o.MaxFolderDepth <= 0 {
		o.MaxFolderDepth = DefaultMaxFolderDepth
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = DefaultRecentWindow
	}
	if o.StaleWindow <= 0 {
		o.StaleWindow = DefaultStaleWindow
	}
	if o.DriveParallel <= 0 {
		o.DriveParallel = 1
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
}

// validate rejects option combinations that cannot describe a scan.
func (o *Options) validate() error {
	if o.MinFolderSize < 0 || o.MinExtSize < 0 || o.MinFileSize < 0 {
		return errInvalid("size thresholds must not be negative")
	}
	if o.TopFiles < 0 {
		return errInvalid("top file count must not be negative")
	}
	if o.Workers < 0 {
		return errInvalid("worker count must not be negative")
	}
	return nil
}
