package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/ui"
	"github.com/satishbabariya/safequery/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skips config loading so version works without a valid setup.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Out = cmd.OutOrStdout()
		},
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if short {
				fmt.Fprintln(ui.Out, info.String())
				return
			}
			fmt.Fprintln(ui.Out, info.FullString())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print a single line")

	return cmd
}
