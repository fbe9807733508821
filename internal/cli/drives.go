package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CaptainMirage/drivescan/internal/drives"
)

func newDrivesCommand(flags *scanFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drives",
		Short: "List fixed volumes and their capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vols, err := drives.List()
			if err != nil {
				return fmt.Errorf("enumerating volumes: %w", err)
			}

			if strings.ToLower(flags.output) == "json" {
				return PrintJSON(vols, cmd.OutOrStdout())
			}

			if len(vols) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No fixed volumes found.")

				return nil
			}

			return PrintDrives(vols, cmd.OutOrStdout())
		},
	}
}
