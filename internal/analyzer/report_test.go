package analyzer

import (
	"testing"
	"time"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

func TestBuildReport(t *testing.T) {
	vol := drives.Volume{ID: "z", Root: "/z", Total: 100, Used: 40, Free: 60}
	anchor := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	agg := aggregates{
		folders: []FolderSize{{Path: "/z/a", Depth: 1, Size: 10, Files: 1}},
		exts:    []ExtensionStat{{Ext: "log", Size: 10, Count: 1}},
		top:     []FileInfo{{Path: "/z/a/x.log", Size: 10}},
	}
	totals := walkTotals{files: 5, dirs: 2, bytes: 1000, errors: 1}

	report := buildReport(vol, anchor, agg, totals, 3*time.Second, true)

	if report.Volume != vol {
		t.Errorf("Volume = %+v, want %+v", report.Volume, vol)
	}

	if !report.GeneratedAt.Equal(anchor) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, anchor)
	}

	if report.FileCount != 5 || report.DirCount != 2 || report.TotalBytes != 1000 || report.ErrorCount != 1 {
		t.Errorf("Counters = %d/%d/%d/%d, want 5/2/1000/1",
			report.FileCount, report.DirCount, report.TotalBytes, report.ErrorCount)
	}

	if report.Elapsed != 3*time.Second || !report.Truncated {
		t.Errorf("Elapsed/Truncated = %v/%v, want 3s/true", report.Elapsed, report.Truncated)
	}

	if len(report.Folders) != 1 || len(report.Extensions) != 1 || len(report.TopFiles) != 1 {
		t.Errorf("Aggregates not carried through: %+v", report)
	}

	if len(report.RecentFiles) != 0 || len(report.StaleFiles) != 0 {
		t.Errorf("Expected empty recent and stale lists, got %+v", report)
	}
}

func TestWalkCounters(t *testing.T) {
	var c walkCounters

	c.observe(Entry{Size: 10})
	c.observe(Entry{Size: 5})
	c.observe(Entry{IsDir: true})

	totals := c.snapshot(2)

	if totals.files != 2 || totals.dirs != 1 || totals.bytes != 15 || totals.errors != 2 {
		t.Errorf("snapshot = %+v, want files 2 dirs 1 bytes 15 errors 2", totals)
	}
}
