package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
	"github.com/CaptainMirage/drivescan/internal/config"
	"github.com/CaptainMirage/drivescan/internal/drives"
	"github.com/CaptainMirage/drivescan/internal/history"
)

// allowedOutputs lists the accepted --output values.
//
//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

func runScan(cmd *cobra.Command, flags *scanFlags, args []string) error {
	opts, cfg, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	format := outputFormat(cmd, flags, cfg)
	if !slices.Contains(allowedOutputs, format) {
		return fmt.Errorf("invalid output format %q: must be one of %v", format, allowedOutputs)
	}

	opts.Volumes = resolveVolumes(args)

	// In-place progress only makes sense on a terminal, for table output,
	// with debug quiet and one volume scanning at a time.
	enableProgress := format != "json" &&
		!flags.debug &&
		opts.DriveParallel == 1 &&
		isatty.IsTerminal(os.Stderr.Fd())

	// Simple progress callback that prints directly to stderr
	var progressHook analyzer.ProgressFunc

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progressHook = func(volume string, files, bytes int64) {
			msg := fmt.Sprintf("Scanning %s… %d files, %s",
				volume, files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	}

	summary, scanErr := analyzer.Scan(cmd.Context(), opts, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if summary == nil {
		return scanErr
	}

	if err := renderSummary(format, summary, cmd.OutOrStdout()); err != nil {
		return err
	}

	if err := saveRun(cmd, cfg, flags, summary); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	// Partial failures surface after the healthy volumes have reported.
	return scanErr
}

// outputFormat applies the flag > config file > built-in precedence to the
// output format.
func outputFormat(cmd *cobra.Command, flags *scanFlags, cfg *config.Config) string {
	if !cmd.Flags().Changed("output") && cfg.Output.Format != "" {
		return strings.ToLower(cfg.Output.Format)
	}

	return strings.ToLower(flags.output)
}

// resolveVolumes maps the command arguments to volumes. With no arguments
// every fixed drive is scanned; names are matched against the enumerated
// drives, and a name that is no drive but an existing directory becomes an
// ad-hoc volume.
func resolveVolumes(names []string) func() ([]drives.Volume, error) {
	return func() ([]drives.Volume, error) {
		vols, err := drives.List()
		if err != nil {
			return nil, err
		}

		if len(names) == 0 {
			return vols, nil
		}

		out := make([]drives.Volume, 0, len(names))

		for _, name := range names {
			vol, err := matchVolume(vols, name)
			if err != nil {
				return nil, err
			}

			out = append(out, vol)
		}

		return out, nil
	}
}

func matchVolume(vols []drives.Volume, name string) (drives.Volume, error) {
	for _, vol := range vols {
		if strings.EqualFold(vol.ID, name) || strings.EqualFold(vol.ID, name+":") {
			return vol, nil
		}

		if filepath.Clean(vol.Root) == filepath.Clean(name) {
			return vol, nil
		}
	}

	// Fall back to scanning an arbitrary directory as its own volume.
	path := filepath.Clean(name)

	info, err := os.Stat(path)
	if err != nil {
		return drives.Volume{}, fmt.Errorf("volume %q: %w", name, err)
	}

	if !info.IsDir() {
		return drives.Volume{}, fmt.Errorf("volume %q is not a directory", name)
	}

	vol := drives.Volume{ID: path, Root: path}

	// Capacity figures are a bonus for ad-hoc volumes; a failed probe
	// leaves them at zero rather than blocking the scan.
	if usage, err := drives.Capacity(path); err == nil {
		vol.Total, vol.Used, vol.Free = usage.Total, usage.Used, usage.Free
	}

	return vol, nil
}

// saveRun persists the summary when asked to by the --save flag or the
// config file.
func saveRun(cmd *cobra.Command, cfg *config.Config, flags *scanFlags, summary *analyzer.Summary) error {
	if len(summary.Reports) == 0 {
		return nil
	}

	if !flags.save && !cfg.History.Enabled {
		return nil
	}

	path, err := historyPath(cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(summary)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", shortID(id))

	return nil
}

// shortID trims a run id to the prefix shown in listings.
func shortID(id string) string {
	const width = 8

	if len(id) <= width {
		return id
	}

	return id[:width]
}
