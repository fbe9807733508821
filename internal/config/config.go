// Package config loads drivescan's YAML configuration and converts it into
// scan options.
package config

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
)

type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
}

// ScanConfig mirrors the analyzer options in file-friendly units: sizes are
// humanized strings such as "250MB" and the time windows are day counts.
// Empty or zero fields keep the built-in defaults.
type ScanConfig struct {
	MinFolderSize string `yaml:"minFolderSize"` // e.g. "0.1GiB"
	MinTypeSize   string `yaml:"minTypeSize"`
	MinFileSize   string `yaml:"minFileSize"`
	FolderDepth   int    `yaml:"folderDepth"`
	TopFiles      int    `yaml:"topFiles"`
	RecentDays    int    `yaml:"recentDays"`
	StaleDays     int    `yaml:"staleDays"`
	Workers       int    `yaml:"workers"`
	Parallel      int    `yaml:"parallel"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // "table", "json"
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration matching the built-in scan defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			MinFolderSize: "0.1GiB",
			MinTypeSize:   "0.01GiB",
			MinFileSize:   "100MiB",
			FolderDepth:   analyzer.DefaultMaxFolderDepth,
			TopFiles:      analyzer.DefaultTopFiles,
			RecentDays:    30,
			StaleDays:     180,
			Parallel:      1,
		},
		Output: OutputConfig{Format: "table"},
	}
}

// Options converts the file representation into analyzer options. Fields the
// file leaves empty or zero stay at their defaults.
func (c *Config) Options() (analyzer.Options, error) {
	opts := analyzer.DefaultOptions()

	if c.Scan.MinFolderSize != "" {
		n, err := parseSize("minFolderSize", c.Scan.MinFolderSize)
		if err != nil {
			return opts, err
		}

		opts.MinFolderSize = n
	}

	if c.Scan.MinTypeSize != "" {
		n, err := parseSize("minTypeSize", c.Scan.MinTypeSize)
		if err != nil {
			return opts, err
		}

		opts.MinExtSize = n
	}

	if c.Scan.MinFileSize != "" {
		n, err := parseSize("minFileSize", c.Scan.MinFileSize)
		if err != nil {
			return opts, err
		}

		opts.MinFileSize = n
	}

	if c.Scan.FolderDepth > 0 {
		opts.MaxFolderDepth = c.Scan.FolderDepth
	}

	if c.Scan.TopFiles > 0 {
		opts.TopFiles = c.Scan.TopFiles
	}

	if c.Scan.RecentDays > 0 {
		opts.RecentWindow = time.Duration(c.Scan.RecentDays) * 24 * time.Hour
	}

	if c.Scan.StaleDays > 0 {
		opts.StaleWindow = time.Duration(c.Scan.StaleDays) * 24 * time.Hour
	}

	if c.Scan.Workers > 0 {
		opts.Workers = c.Scan.Workers
	}

	if c.Scan.Parallel > 0 {
		opts.DriveParallel = c.Scan.Parallel
	}

	return opts, nil
}

func parseSize(name, value string) (int64, error) {
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, value, err)
	}

	return int64(n), nil
}
