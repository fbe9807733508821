package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

// ProgressFunc receives periodic progress updates while a volume is being
// walked.
type ProgressFunc func(volume string, files, bytes int64)

// startProgress invokes hook on each tick until ctx is done.
func startProgress(ctx context.Context, volume string, counters *walkCounters, hook ProgressFunc, interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(volume, counters.files.Load(), counters.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// ScanVolume walks one volume and reduces the entry stream into a report.
//
// All five aggregations run in the same single pass over the tree, so the
// volume is read exactly once. Cancelling ctx stops the walk at the next
// entry; the report then carries Truncated, covers the entries seen so far,
// and no error is returned.
func ScanVolume(ctx context.Context, vol drives.Volume, opts Options, hook ProgressFunc) (*DriveReport, error) {
	opts.setDefaults()

	if err := opts.validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(vol.Root)
	if err != nil {
		return nil, fmt.Errorf("accessing volume root %q: %w", vol.Root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("volume root %q: %w", vol.Root, ErrNotDirectory)
	}

	// Single time anchor for the whole scan; the recent and stale windows
	// are measured against it for every file.
	anchor := time.Now()

	folders := newFolderAggregator(vol.Root, opts.MaxFolderDepth, opts.MinFolderSize)
	exts := newExtAggregator(opts.MinExtSize)
	top := newTopAggregator(opts.TopFiles)
	recent := newRecentAggregator(anchor, opts.RecentWindow, opts.MinFileSize)
	stale := newStaleAggregator(anchor, opts.StaleWindow, opts.MinFileSize)

	reducers := []aggregator{folders, exts, top, recent, stale}
	counters := &walkCounters{}

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgress(ctx, vol.ID, counters, hook, opts.ProgressInterval)

	walk := &walker{
		root:    vol.Root,
		workers: opts.Workers,
		log:     logger{enabled: opts.Debug},
	}

	truncated, err := walk.walk(ctx, func(e Entry) {
		counters.observe(e)

		for _, r := range reducers {
			r.Add(e)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", vol.Root, err)
	}

	agg := aggregates{
		folders: folders.Result(),
		exts:    exts.Result(),
		top:     top.Result(),
		recent:  recent.Result(),
		stale:   stale.Result(),
	}

	return buildReport(vol, anchor, agg, counters.snapshot(walk.errorCount()), time.Since(anchor), truncated), nil
}

// Scan enumerates volumes and scans each with bounded parallelism.
//
// Volumes are isolated from each other: one failing volume contributes an
// error while the rest still produce reports. The summary lists reports in
// enumeration order for every volume that completed. The returned error
// joins the per-volume failures; external cancellation is not among them, a
// cancelled run simply yields truncated reports for the volumes that had
// started.
func Scan(ctx context.Context, opts Options, hook ProgressFunc) (*Summary, error) {
	opts.setDefaults()

	if err := opts.validate(); err != nil {
		return nil, err
	}

	vols, err := opts.Volumes()
	if err != nil {
		return nil, fmt.Errorf("enumerating volumes: %w", err)
	}

	if len(vols) == 0 {
		return nil, ErrNoVolumes
	}

	start := time.Now()
	reports := make([]*DriveReport, len(vols))
	scanErrs := make([]error, len(vols))
	sem := make(chan struct{}, opts.DriveParallel)

	var wg sync.WaitGroup

loop:
	for i, vol := range vols {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}

		// A slot can be won in the same instant the run is cancelled;
		// volumes that have not started stay out of the summary.
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)

		go func(i int, vol drives.Volume) {
			defer wg.Done()
			defer func() { <-sem }()

			report, err := ScanVolume(ctx, vol, opts, hook)
			if err != nil {
				scanErrs[i] = fmt.Errorf("volume %s: %w", vol.ID, err)

				return
			}

			reports[i] = report
		}(i, vol)
	}

	wg.Wait()

	summary := &Summary{Elapsed: time.Since(start)}

	for _, report := range reports {
		if report != nil {
			summary.Reports = append(summary.Reports, report)
		}
	}

	return summary, errors.Join(scanErrs...)
}
