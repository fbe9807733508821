package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
	"github.com/CaptainMirage/drivescan/internal/drives"
	"github.com/CaptainMirage/drivescan/internal/history"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2

	// displayRows caps how many rows each table section prints. JSON output
	// carries the full lists.
	displayRows = 10

	// dateFormat renders timestamps in report output.
	dateFormat = "2006-01-02 15:04:05"
)

// PrintJSON outputs v in indented JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// renderSummary dispatches a scan summary to the requested output format.
func renderSummary(format string, summary *analyzer.Summary, writer io.Writer) error {
	switch strings.ToLower(format) {
	case "json":
		return PrintJSON(summary, writer)
	case "table":
		return PrintSummary(summary, writer)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// PrintSummary renders every drive report followed by a run footer.
func PrintSummary(summary *analyzer.Summary, writer io.Writer) error {
	for _, report := range summary.Reports {
		if err := PrintReport(report, writer); err != nil {
			return err
		}
	}

	if len(summary.Reports) > 1 {
		_, err := fmt.Fprintf(writer, "\nScanned %d volumes in %v\n",
			len(summary.Reports), summary.Elapsed.Round(time.Millisecond))

		return err
	}

	return nil
}

// PrintReport outputs one volume report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintReport(report *analyzer.DriveReport, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\n=== Storage Distribution Analysis ===")
	fmt.Fprintf(w, "Date:\t%s\n", report.GeneratedAt.Format(dateFormat))
	fmt.Fprintf(w, "Drive:\t%s (%s)\n", report.Volume.ID, report.Volume.Root)

	if report.Truncated {
		fmt.Fprintln(w, "Note:\tscan was cancelled; figures cover the entries seen so far")
	}

	printOverview(w, report)
	printFolders(w, report)
	printExtensions(w, report)
	printTopFiles(w, report)
	printRecentFiles(w, report)
	printStaleFiles(w, report)

	fmt.Fprintln(w, "\nStats:")
	fmt.Fprintf(w, "Files:\t%d\n", report.FileCount)
	fmt.Fprintf(w, "Directories:\t%d\n", report.DirCount)
	fmt.Fprintf(w, "Scanned:\t%s (%d bytes)\n", ibytes(report.TotalBytes), report.TotalBytes)

	if report.ErrorCount > 0 {
		fmt.Fprintf(w, "Skipped:\t%d unreadable entries\n", report.ErrorCount)
	}

	fmt.Fprintf(w, "Elapsed:\t%v\n", report.Elapsed.Round(time.Millisecond))

	return w.Flush()
}

// printReportSection renders a single named section of a report. The section
// names double as the shell command vocabulary.
func printReportSection(section string, report *analyzer.DriveReport, writer io.Writer) error {
	if section == "drive-analysis" {
		return PrintReport(report, writer)
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	switch section {
	case "drive-space":
		printOverview(w, report)
	case "largest-folders":
		printFolders(w, report)
	case "file-type-dist":
		printExtensions(w, report)
	case "largest-files":
		printTopFiles(w, report)
	case "recent-large-files":
		printRecentFiles(w, report)
	case "old-large-files":
		printStaleFiles(w, report)
	default:
		return fmt.Errorf("unknown report section: %s", section)
	}

	return w.Flush()
}

func printOverview(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintln(w, "\n--- Drive Space Overview ---")

	if report.Volume.Total == 0 {
		fmt.Fprintln(w, "Capacity:\tunknown")

		return
	}

	fmt.Fprintf(w, "Total Size:\t%s\n", humanize.IBytes(report.Volume.Total))
	fmt.Fprintf(w, "Used Space:\t%s\n", humanize.IBytes(report.Volume.Used))
	fmt.Fprintf(w, "Free Space:\t%s (%.1f%%)\n",
		humanize.IBytes(report.Volume.Free), report.Volume.FreePercent())
}

func printFolders(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintf(w, "\n--- Largest Folders (Top %d) ---\n", displayRows)

	for i, folder := range head(report.Folders) {
		fmt.Fprintf(w, "  %d)\t%s\t%s\t%d files\n",
			i+1, folder.Path, ibytes(folder.Size), folder.Files)
	}
}

func printExtensions(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintf(w, "\n--- File Type Distribution (Top %d) ---\n", displayRows)

	for i, ext := range head(report.Extensions) {
		name := ext.Ext
		if name == "" {
			name = "(no extension)"
		}

		pct := 0.0
		if report.TotalBytes > 0 {
			pct = 100.0 * float64(ext.Size) / float64(report.TotalBytes)
		}

		fmt.Fprintf(w, "  %d)\t%s\t%d files\t%s (%.1f%%)\n",
			i+1, name, ext.Count, ibytes(ext.Size), pct)
	}
}

func printTopFiles(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintln(w, "\n--- Largest Files ---")
	printFiles(w, report.TopFiles)
}

func printRecentFiles(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintln(w, "\n--- Recent Large Files ---")
	printFiles(w, head(report.RecentFiles))
}

func printStaleFiles(w io.Writer, report *analyzer.DriveReport) {
	fmt.Fprintln(w, "\n--- Old Large Files (>6 months old) ---")
	printFiles(w, head(report.StaleFiles))
}

func printFiles(w io.Writer, files []analyzer.FileInfo) {
	for i, file := range files {
		fmt.Fprintf(w, "  %d)\t%s\t%s\tmodified %s\n",
			i+1, file.Path, ibytes(file.Size), file.ModTime.Format(dateFormat))
	}
}

// PrintDrives outputs the fixed-volume table.
//
//nolint:forbidigo // This function prints output to the console.
func PrintDrives(vols []drives.Volume, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Drive\tRoot\tTotal\tUsed\tFree\tFree%")

	for _, vol := range vols {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\n",
			vol.ID, vol.Root,
			humanize.IBytes(vol.Total), humanize.IBytes(vol.Used), humanize.IBytes(vol.Free),
			vol.FreePercent())
	}

	return w.Flush()
}

// PrintRuns outputs the persisted-run listing.
//
//nolint:forbidigo // This function prints output to the console.
func PrintRuns(runs []history.RunMeta, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "ID\tCreated\tVolumes\tFiles\tSize")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			shortID(run.ID), run.CreatedAt.Format(dateFormat),
			run.Volumes, run.Files, ibytes(run.Bytes))
	}

	return w.Flush()
}

// head returns at most displayRows items.
func head[T any](items []T) []T {
	if len(items) > displayRows {
		return items[:displayRows]
	}

	return items
}

// ibytes renders a byte count in binary units.
func ibytes(n int64) string {
	return humanize.IBytes(uint64(n)) //nolint:gosec // Sizes are never negative.
}
