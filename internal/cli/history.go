package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/CaptainMirage/drivescan/internal/config"
	"github.com/CaptainMirage/drivescan/internal/history"
)

func newHistoryCommand(flags *scanFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted scan runs",
		Long: heredoc.Doc(`
			Lists the runs recorded by --save (or by history.enabled in the
			config file), newest first. Use history show to re-render one.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, flags, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Re-render one persisted run",
		Long: heredoc.Doc(`
			Renders a recorded run the same way the scan printed it. The id may
			be abbreviated to any unique prefix, such as the one the listing
			shows.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, flags, args[0])
		},
	})

	return cmd
}

func runHistoryList(cmd *cobra.Command, flags *scanFlags, limit int) error {
	store, cfg, err := openHistory(cmd, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return err
	}

	if outputFormat(cmd, flags, cfg) == "json" {
		return PrintJSON(runs, cmd.OutOrStdout())
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")

		return nil
	}

	return PrintRuns(runs, cmd.OutOrStdout())
}

func runHistoryShow(cmd *cobra.Command, flags *scanFlags, id string) error {
	store, cfg, err := openHistory(cmd, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Get(id)
	if err != nil {
		return err
	}

	return renderSummary(outputFormat(cmd, flags, cfg), summary, cmd.OutOrStdout())
}

func openHistory(cmd *cobra.Command, flags *scanFlags) (*history.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, nil, err
	}

	path, err := historyPath(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return store, cfg, nil
}

// historyPath resolves the database location, preferring the config file.
func historyPath(cfg *config.Config) (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}

	return config.DefaultHistoryPath()
}
