package analyzer

import (
	"sync/atomic"
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

// walkCounters tracks stream-level totals with atomics so the progress
// reporter can read them while walk workers write.
type walkCounters struct {
	files atomic.Int64
	dirs  atomic.Int64
	bytes atomic.Int64
}

// observe counts one entry.
func (c *walkCounters) observe(e Entry) {
	if e.IsDir {
		c.dirs.Add(1)

		return
	}

	c.files.Add(1)
	c.bytes.Add(e.Size)
}

// walkTotals is an immutable snapshot of the stream counters.
type walkTotals struct {
	files  int64
	dirs   int64
	bytes  int64
	errors int64
}

// snapshot captures the current totals together with the walker's error
// count.
func (c *walkCounters) snapshot(errCount int64) walkTotals {
	return walkTotals{
		files:  c.files.Load(),
		dirs:   c.dirs.Load(),
		bytes:  c.bytes.Load(),
		errors: errCount,
	}
}

// aggregates bundles the five reducer outputs for the report builder.
type aggregates struct {
	folders []FolderSize
	exts    []ExtensionStat
	top     []FileInfo
	recent  []FileInfo
	stale   []FileInfo
}

// buildReport assembles one DriveReport from already-reduced data. It never
// touches the filesystem, so a report can be built from any aggregator
// state, complete or truncated alike.
func buildReport(
	vol drives.Volume,
	anchor time.Time,
	agg aggregates,
	totals walkTotals,
	elapsed time.Duration,
	truncated bool,
) *DriveReport {
	return &DriveReport{
		Volume:      vol,
		GeneratedAt: anchor,
		Folders:     agg.folders,
		Extensions:  agg.exts,
		TopFiles:    agg.top,
		RecentFiles: agg.recent,
		StaleFiles:  agg.stale,
		FileCount:   totals.files,
		DirCount:    totals.dirs,
		TotalBytes:  totals.bytes,
		ErrorCount:  totals.errors,
		Elapsed:     elapsed,
		Truncated:   truncated,
	}
}
