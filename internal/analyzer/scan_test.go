package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

func TestScanVolume(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	old := now.Add(-200 * 24 * time.Hour)

	writeTestFile(t, filepath.Join(root, "movies", "big.mkv"), 4000, now)
	writeTestFile(t, filepath.Join(root, "movies", "clips", "small.mp4"), 500, now)
	writeTestFile(t, filepath.Join(root, "docs", "old.pdf"), 1500, old)
	writeTestFile(t, filepath.Join(root, "notes.txt"), 100, now)

	vol := drives.Volume{ID: "test", Root: root, Total: 1 << 30}

	opts := Options{
		MinFileSize:  1000,
		TopFiles:     2,
		RecentWindow: 30 * 24 * time.Hour,
		StaleWindow:  180 * 24 * time.Hour,
	}

	report, err := ScanVolume(context.Background(), vol, opts, nil)
	if err != nil {
		t.Fatalf("ScanVolume failed: %v", err)
	}

	if report.Truncated {
		t.Error("Expected a complete scan")
	}

	if report.FileCount != 4 || report.DirCount != 3 {
		t.Errorf("Expected 4 files and 3 dirs, got %d and %d", report.FileCount, report.DirCount)
	}

	if report.TotalBytes != 6100 {
		t.Errorf("Expected 6100 total bytes, got %d", report.TotalBytes)
	}

	// With zero thresholds every bucket surfaces, so the histogram must
	// account for every scanned byte.
	var bucketed int64
	for _, ext := range report.Extensions {
		bucketed += ext.Size
	}

	if bucketed != report.TotalBytes {
		t.Errorf("Extension buckets sum to %d, want %d", bucketed, report.TotalBytes)
	}

	if report.Volume.ID != "test" || report.Volume.Total != 1<<30 {
		t.Errorf("Expected volume identity to pass through, got %+v", report.Volume)
	}

	// Folder rollup: movies holds both files, clips only its own.
	folders := make(map[string]FolderSize)
	for _, f := range report.Folders {
		folders[f.Path] = f
	}

	movies := folders[filepath.Join(root, "movies")]
	if movies.Size != 4500 || movies.Files != 2 || movies.Depth != 1 {
		t.Errorf("movies = %+v, want size 4500 files 2 depth 1", movies)
	}

	clips := folders[filepath.Join(root, "movies", "clips")]
	if clips.Size != 500 || clips.Depth != 2 {
		t.Errorf("clips = %+v, want size 500 depth 2", clips)
	}

	if len(report.TopFiles) != 2 {
		t.Fatalf("Expected 2 top files, got %d", len(report.TopFiles))
	}

	if report.TopFiles[0].Size != 4000 || report.TopFiles[1].Size != 1500 {
		t.Errorf("Top sizes = %d, %d; want 4000, 1500", report.TopFiles[0].Size, report.TopFiles[1].Size)
	}

	// Recent and stale respect the minimum file size.
	if len(report.RecentFiles) != 1 || report.RecentFiles[0].Path != filepath.Join(root, "movies", "big.mkv") {
		t.Errorf("Recent = %v, want only big.mkv", report.RecentFiles)
	}

	if len(report.StaleFiles) != 1 || report.StaleFiles[0].Path != filepath.Join(root, "docs", "old.pdf") {
		t.Errorf("Stale = %v, want only old.pdf", report.StaleFiles)
	}

	if report.GeneratedAt.IsZero() || report.Elapsed <= 0 {
		t.Errorf("Expected anchor and elapsed to be set, got %v and %v", report.GeneratedAt, report.Elapsed)
	}
}

func TestScanVolumeEmptyTree(t *testing.T) {
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}

	vol := drives.Volume{ID: "empty", Root: root}

	report, err := ScanVolume(context.Background(), vol, Options{}, nil)
	if err != nil {
		t.Fatalf("ScanVolume failed: %v", err)
	}

	if report.FileCount != 0 || report.TotalBytes != 0 {
		t.Errorf("Expected no files, got count %d size %d", report.FileCount, report.TotalBytes)
	}

	if report.DirCount != 2 {
		t.Errorf("Expected 2 dirs, got %d", report.DirCount)
	}

	if len(report.Folders) != 0 || len(report.TopFiles) != 0 {
		t.Errorf("Expected empty aggregates, got %+v", report)
	}
}

func TestScanVolumeMissingRoot(t *testing.T) {
	vol := drives.Volume{ID: "gone", Root: filepath.Join(t.TempDir(), "missing")}

	_, err := ScanVolume(context.Background(), vol, Options{}, nil)
	if err == nil {
		t.Fatal("Expected an error for a missing root")
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestScanVolumeFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")
	writeTestFile(t, path, 10, time.Now())

	_, err := ScanVolume(context.Background(), drives.Volume{ID: "f", Root: path}, Options{}, nil)
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestScanVolumeInvalidOptions(t *testing.T) {
	vol := drives.Volume{ID: "x", Root: t.TempDir()}

	_, err := ScanVolume(context.Background(), vol, Options{TopFiles: -1}, nil)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Expected ErrInvalidOptions, got %v", err)
	}
}

func TestScanVolumeCancelled(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.bin"), 10, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := ScanVolume(ctx, drives.Volume{ID: "c", Root: root}, Options{}, nil)
	if err != nil {
		t.Fatalf("Cancellation must not surface as an error, got %v", err)
	}

	if !report.Truncated {
		t.Error("Expected a truncated report")
	}
}

func TestScanVolumeProgress(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeTestFile(t, filepath.Join(root, "f"+string(rune('a'+i))+".bin"), 10, time.Now())
	}

	// The hook runs on the reporter goroutine and may tick zero times on a
	// short scan, so only the volume id is asserted.
	hook := func(volume string, files, bytes int64) {
		if volume != "p" {
			t.Errorf("Expected volume id p, got %q", volume)
		}
	}

	opts := Options{ProgressInterval: time.Millisecond}

	_, err := ScanVolume(context.Background(), drives.Volume{ID: "p", Root: root}, opts, hook)
	if err != nil {
		t.Fatalf("ScanVolume failed: %v", err)
	}
}

func TestScanVolumeIdempotent(t *testing.T) {
	root := t.TempDir()
	now := time.Now().Add(-time.Hour)

	writeTestFile(t, filepath.Join(root, "a", "one.dat"), 10, now)
	writeTestFile(t, filepath.Join(root, "a", "two.dat"), 20, now)
	writeTestFile(t, filepath.Join(root, "b", "three.dat"), 30, now)

	vol := drives.Volume{ID: "same", Root: root}

	first, err := ScanVolume(context.Background(), vol, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ScanVolume(context.Background(), vol, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	normalize := func(r *DriveReport) DriveReport {
		c := *r
		c.GeneratedAt = time.Time{}
		c.Elapsed = 0

		return c
	}

	if !reflect.DeepEqual(normalize(first), normalize(second)) {
		t.Errorf("Repeated scans differ:\n%+v\n%+v", normalize(first), normalize(second))
	}
}

func TestScan(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	now := time.Now()

	writeTestFile(t, filepath.Join(rootA, "a.bin"), 100, now)
	writeTestFile(t, filepath.Join(rootB, "b.bin"), 200, now)

	opts := Options{
		DriveParallel: 2,
		Volumes: func() ([]drives.Volume, error) {
			return []drives.Volume{
				{ID: "a", Root: rootA},
				{ID: "b", Root: rootB},
			}, nil
		},
	}

	summary, err := Scan(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(summary.Reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(summary.Reports))
	}

	// Reports keep enumeration order even when scanned in parallel.
	if summary.Reports[0].Volume.ID != "a" || summary.Reports[1].Volume.ID != "b" {
		t.Errorf("Expected reports in enumeration order, got %s then %s",
			summary.Reports[0].Volume.ID, summary.Reports[1].Volume.ID)
	}

	if summary.Elapsed <= 0 {
		t.Error("Expected elapsed to be set")
	}
}

func TestScanIsolatesFailures(t *testing.T) {
	good := t.TempDir()
	writeTestFile(t, filepath.Join(good, "ok.bin"), 10, time.Now())

	opts := Options{
		Volumes: func() ([]drives.Volume, error) {
			return []drives.Volume{
				{ID: "good", Root: good},
				{ID: "bad", Root: filepath.Join(good, "does-not-exist")},
			}, nil
		},
	}

	summary, err := Scan(context.Background(), opts, nil)
	if err == nil {
		t.Fatal("Expected an error for the failing volume")
	}

	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("Expected the error to name the failing volume, got %v", err)
	}

	if len(summary.Reports) != 1 || summary.Reports[0].Volume.ID != "good" {
		t.Errorf("Expected the healthy volume to still report, got %+v", summary.Reports)
	}
}

func TestScanNoVolumes(t *testing.T) {
	opts := Options{
		Volumes: func() ([]drives.Volume, error) { return nil, nil },
	}

	_, err := Scan(context.Background(), opts, nil)
	if !errors.Is(err, ErrNoVolumes) {
		t.Errorf("Expected ErrNoVolumes, got %v", err)
	}
}

func TestScanEnumerationError(t *testing.T) {
	boom := errors.New("boom")

	opts := Options{
		Volumes: func() ([]drives.Volume, error) { return nil, boom },
	}

	_, err := Scan(context.Background(), opts, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Expected the enumeration error, got %v", err)
	}
}

func TestScanCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{
		Volumes: func() ([]drives.Volume, error) {
			return []drives.Volume{{ID: "never", Root: t.TempDir()}}, nil
		},
	}

	summary, err := Scan(ctx, opts, nil)
	if err != nil {
		t.Fatalf("Cancellation must not surface as an error, got %v", err)
	}

	if len(summary.Reports) != 0 {
		t.Errorf("Expected no reports for unstarted volumes, got %d", len(summary.Reports))
	}
}
