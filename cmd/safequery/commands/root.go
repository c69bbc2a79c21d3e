// Package commands implements the safequery CLI commands.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/config"
	"github.com/satishbabariya/safequery/internal/debug"
	"github.com/satishbabariya/safequery/internal/ui"
	"github.com/satishbabariya/safequery/internal/utils/container"
	"github.com/satishbabariya/safequery/internal/version"
)

// App carries the global flags and the configuration they resolve to.
type App struct {
	ConfigFile string
	Debug      bool

	cfg *config.Config
}

// Config returns the loaded configuration. It is set once the root
// command's pre-run has completed.
func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) load(cmd *cobra.Command) error {
	ui.Out = cmd.OutOrStdout()
	ui.Err = cmd.ErrOrStderr()

	cfg, err := config.Load(a.ConfigFile)
	if err != nil {
		return err
	}
	if a.Debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	debug.Configure(debug.Options{
		Enable: cfg.Debug,
		JSON:   cfg.LogJSON,
		Writer: cmd.ErrOrStderr(),
	})
	if cfg.File != "" {
		debug.Debug("config loaded", "file", cfg.File)
	}
	return nil
}

// open builds the dependency container from the loaded configuration.
func (a *App) open(ctx context.Context) (*container.Container, error) {
	if a.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainer(ctx, a.cfg)
}

// NewRootCommand creates the safequery command tree.
func NewRootCommand() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "safequery",
		Short: "Parameterized catalog search",
		Long: `safequery looks up catalog items by category using parameterized
queries only. The concatenated form of the same lookup can be inspected but
never executed.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "config file (default searches ./.safequery.yaml, $HOME)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "enable debug logging")

	cmd.AddCommand(NewServeCommand(app))
	cmd.AddCommand(NewQueryCommand(app))
	cmd.AddCommand(NewInspectCommand(app))
	cmd.AddCommand(NewDBCommand(app))
	cmd.AddCommand(NewConfigCommand(app))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the CLI until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}
