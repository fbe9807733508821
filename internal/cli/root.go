// Package cli implements the drivescan command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
	"github.com/CaptainMirage/drivescan/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the command tree with the provided context.
func (c CLI) Execute(ctx context.Context) error {
	return c.newRootCommand().ExecuteContext(ctx)
}

// scanFlags carries every flag that tunes a scan.
type scanFlags struct {
	configPath    string
	minFolderSize string
	minTypeSize   string
	minFileSize   string
	folderDepth   int
	topFiles      int
	recentDays    int
	staleDays     int
	workers       int
	parallel      int
	output        string
	save          bool
	debug         bool
}

func (c CLI) newRootCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "drivescan [volume...]",
		Short: "Analyze space usage on fixed drives",
		Long: heredoc.Doc(`
			drivescan walks fixed drives in a single parallel pass and reports
			where the space went: the heaviest folders near the volume root, a
			size histogram by file extension, the largest files, and large files
			that are either freshly modified or untouched for months.

			Without arguments every fixed drive is scanned. Volumes can be named
			by the identifiers shown by the drives command; any existing
			directory path is also accepted and scanned as a volume of its own.

			Thresholds accept humanized sizes such as 250MB or 0.5GiB. Flags
			override the config file, which overrides the built-in defaults.
		`),
		Example: heredoc.Doc(`
			# Scan every fixed drive
			drivescan

			# Scan one drive, keep the 25 largest files, emit JSON
			drivescan C: --top 25 --output json

			# Treat a directory as a volume and persist the run
			drivescan /var/lib/docker --save
		`),
		Args:          cobra.ArbitraryArgs,
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, flags, args)
		},
	}

	// The scan tuning flags are persistent so the shell and history
	// subcommands honor them too.
	registerScanFlags(cmd.PersistentFlags(), flags)

	cmd.AddCommand(
		newDrivesCommand(flags),
		newShellCommand(flags),
		newHistoryCommand(flags),
		newConfigCommand(),
	)

	return cmd
}

func registerScanFlags(pf *pflag.FlagSet, flags *scanFlags) {
	pf.StringVar(&flags.configPath, "config", "", "Config file to load (default: the per-user config if present)")
	pf.StringVar(&flags.minFolderSize, "min-folder-size", "", "Minimum cumulative folder size to report (e.g. 0.1GiB)")
	pf.StringVar(&flags.minTypeSize, "min-type-size", "", "Minimum cumulative extension size to report (e.g. 0.01GiB)")
	pf.StringVar(&flags.minFileSize, "min-file-size", "", "Minimum file size for the recent and stale lists (e.g. 100MiB)")
	pf.IntVar(&flags.folderDepth, "folder-depth", analyzer.DefaultMaxFolderDepth, "How many levels below the volume root to report folders")
	pf.IntVarP(&flags.topFiles, "top", "t", analyzer.DefaultTopFiles, "Number of largest files to track per volume")
	pf.IntVar(&flags.recentDays, "recent-days", 30, "Age in days up to which files count as recent")
	pf.IntVar(&flags.staleDays, "stale-days", 180, "Age in days from which files count as stale")
	pf.IntVarP(&flags.workers, "workers", "w", 0, "Walker goroutines per volume (0 = automatic)")
	pf.IntVarP(&flags.parallel, "parallel", "p", 1, "Number of volumes scanned at once")
	pf.StringVarP(&flags.output, "output", "o", "table", "Output format: table or json")
	pf.BoolVar(&flags.save, "save", false, "Persist the run into the scan history database")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug output")

	pf.SortFlags = false
}

// loadConfig returns the explicitly requested config file, or the per-user
// one, or the built-in defaults when no file exists.
func loadConfig(cmd *cobra.Command, flags *scanFlags) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(flags.configPath)
	}

	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveOptions layers changed flags over the config file over the
// built-in defaults.
func resolveOptions(cmd *cobra.Command, flags *scanFlags) (analyzer.Options, *config.Config, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return analyzer.Options{}, nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return analyzer.Options{}, nil, err
	}

	set := cmd.Flags()

	sizeFlags := []struct {
		name  string
		value string
		dst   *int64
	}{
		{"min-folder-size", flags.minFolderSize, &opts.MinFolderSize},
		{"min-type-size", flags.minTypeSize, &opts.MinExtSize},
		{"min-file-size", flags.minFileSize, &opts.MinFileSize},
	}

	for _, f := range sizeFlags {
		if !set.Changed(f.name) {
			continue
		}

		size, err := humanize.ParseBytes(f.value)
		if err != nil {
			return analyzer.Options{}, nil, fmt.Errorf("invalid --%s: %w", f.name, err)
		}

		*f.dst = int64(size) //nolint:gosec // Size conversion from humanize is safe
	}

	if set.Changed("folder-depth") {
		opts.MaxFolderDepth = flags.folderDepth
	}

	if set.Changed("top") {
		opts.TopFiles = flags.topFiles
	}

	if set.Changed("recent-days") {
		opts.RecentWindow = time.Duration(flags.recentDays) * 24 * time.Hour
	}

	if set.Changed("stale-days") {
		opts.StaleWindow = time.Duration(flags.staleDays) * 24 * time.Hour
	}

	if set.Changed("workers") {
		opts.Workers = flags.workers
	}

	if set.Changed("parallel") {
		opts.DriveParallel = flags.parallel
	}

	opts.Debug = flags.debug

	return opts, cfg, nil
}
