package commands

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/config"
	"github.com/satishbabariya/safequery/internal/ui"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			file := cfg.File
			if file == "" {
				file = "(none)"
			}
			ui.PrintKeyValues([][2]string{
				{"file", file},
				{"provider", cfg.Database.Provider},
				{"url", redact(cfg.Database.URL)},
				{"server.addr", cfg.Server.Addr},
				{"query", fmt.Sprintf("%s %v by %s", cfg.Query.Table, cfg.Query.Columns, cfg.Query.FilterColumn)},
				{"query.param", cfg.Query.Param},
				{"executor.propagate_cancel", fmt.Sprint(cfg.Executor.PropagateCancel)},
				{"executor.timeout", cfg.Executor.Timeout.String()},
			})
			return nil
		},
	})

	var global bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if global {
				home, err := homedir.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(home, ".config", "safequery", path)
			}
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(app.Config(), path); err != nil {
				return err
			}
			ui.PrintSuccess("wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&global, "global", false, "write to $HOME/.config/safequery")
	cmd.AddCommand(initCmd)

	return cmd
}
