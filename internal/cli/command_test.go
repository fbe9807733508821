package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
	"github.com/CaptainMirage/drivescan/internal/drives"
	"github.com/CaptainMirage/drivescan/internal/history"
)

// execute runs the full command tree with args and captures stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := New("test").newRootCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// scanFixture lays out a small tree with a known shape.
func scanFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	files := map[string]int{
		filepath.Join(root, "movies", "big.bin"):            4000,
		filepath.Join(root, "movies", "clips", "small.bin"): 500,
		filepath.Join(root, "notes.txt"):                    100,
	}

	for path, size := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}

		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	return root
}

func TestScanCommandJSON(t *testing.T) {
	root := scanFixture(t)
	cfgPath := writeConfigFile(t, "")

	out, err := execute(t,
		root,
		"--config", cfgPath,
		"--output", "json",
		"--min-folder-size", "0",
		"--min-type-size", "0",
		"--min-file-size", "0",
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var summary analyzer.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Expected a JSON summary: %v", err)
	}

	if len(summary.Reports) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(summary.Reports))
	}

	report := summary.Reports[0]

	if report.Volume.ID != filepath.Clean(root) {
		t.Errorf("Expected volume id %s, got %s", filepath.Clean(root), report.Volume.ID)
	}

	if report.FileCount != 3 {
		t.Errorf("Expected 3 files, got %d", report.FileCount)
	}

	if report.TotalBytes != 4600 {
		t.Errorf("Expected 4600 bytes, got %d", report.TotalBytes)
	}

	if len(report.Folders) != 2 {
		t.Fatalf("Expected 2 folders, got %+v", report.Folders)
	}

	if report.Folders[0].Path != filepath.Join(root, "movies") || report.Folders[0].Size != 4500 {
		t.Errorf("Expected movies with 4500 bytes first, got %+v", report.Folders[0])
	}

	if len(report.Extensions) != 2 || report.Extensions[0].Ext != "bin" {
		t.Errorf("Expected the bin bucket first, got %+v", report.Extensions)
	}

	if len(report.TopFiles) != 3 || report.TopFiles[0].Size != 4000 {
		t.Errorf("Expected the 4000-byte file on top, got %+v", report.TopFiles)
	}

	if len(report.RecentFiles) != 3 {
		t.Errorf("Expected every fresh file in the recent list, got %+v", report.RecentFiles)
	}

	if len(report.StaleFiles) != 0 {
		t.Errorf("Expected no stale files, got %+v", report.StaleFiles)
	}

	if report.Truncated {
		t.Error("Expected a complete scan")
	}
}

func TestScanCommandInvalidOutput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := execute(t, "--output", "xml"); err == nil {
		t.Error("Expected an error for an unknown output format")
	}
}

func TestScanCommandSaveAndHistory(t *testing.T) {
	root := scanFixture(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfgPath := writeConfigFile(t, "history:\n  path: \""+dbPath+"\"\n")

	if _, err := execute(t,
		root,
		"--config", cfgPath,
		"--save",
		"--min-folder-size", "0",
		"--min-type-size", "0",
		"--min-file-size", "0",
	); err != nil {
		t.Fatalf("scan: %v", err)
	}

	listing, err := execute(t, "history", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(listing), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected a header and one run, got %q", listing)
	}

	id := strings.Fields(lines[1])[0]

	shown, err := execute(t, "history", "show", id, "--config", cfgPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}

	if !strings.Contains(shown, "=== Storage Distribution Analysis ===") {
		t.Errorf("Expected the rendered report, got %q", shown)
	}

	if !strings.Contains(shown, filepath.Join(root, "movies")) {
		t.Error("Expected the stored folder rollup to survive the round trip")
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfgPath := writeConfigFile(t, "history:\n  path: \""+dbPath+"\"\n")

	out, err := execute(t, "history", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if !strings.Contains(out, "No runs recorded.") {
		t.Errorf("Expected the empty notice, got %q", out)
	}
}

func TestHistoryShowNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfgPath := writeConfigFile(t, "history:\n  path: \""+dbPath+"\"\n")

	_, err := execute(t, "history", "show", "deadbeef", "--config", cfgPath)
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}

	for _, want := range []string{"scan:", "history:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestConfigPathCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}

	if !strings.Contains(out, "drivescan") {
		t.Errorf("Expected the per-user path, got %q", out)
	}
}

func TestDrivesCommandJSON(t *testing.T) {
	out, err := execute(t, "drives", "--output", "json")
	if err != nil {
		t.Fatalf("drives: %v", err)
	}

	var vols []drives.Volume
	if err := json.Unmarshal([]byte(out), &vols); err != nil {
		t.Fatalf("Expected a JSON volume list: %v", err)
	}
}
