package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/config"
	"github.com/satishbabariya/safequery/internal/core/database/pool"
	"github.com/satishbabariya/safequery/internal/ui"
	"github.com/satishbabariya/safequery/internal/version"
	"github.com/satishbabariya/safequery/internal/watch"
)

// NewDBCommand creates the parent db command.
func NewDBCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Check and seed the configured database",
	}

	cmd.AddCommand(NewDBPingCommand(app))
	cmd.AddCommand(NewDBSeedCommand(app))

	return cmd
}

// NewDBPingCommand creates the db ping command.
func NewDBPingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBPing(cmd.Context(), app)
		},
	}
}

func runDBPing(ctx context.Context, app *App) error {
	c, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	d := c.Dialect()
	start := time.Now()
	if err := c.Pool().HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	latency := time.Since(start)

	raw, err := database.ServerVersion(ctx, c.Pool(), d)
	if err != nil {
		return err
	}
	v, err := version.CheckServer(raw, d.MinVersion)
	if err != nil {
		return err
	}

	stats := c.Pool().Stats()
	ui.PrintKeyValues([][2]string{
		{"dialect", string(d.Name)},
		{"driver", d.Driver},
		{"server", v.String()},
		{"minimum", d.MinVersion},
		{"latency", latency.Round(time.Microsecond).String()},
		{"open", fmt.Sprint(stats.OpenConnections)},
		{"max open", fmt.Sprint(stats.MaxOpenConnections)},
	})
	ui.PrintSuccess("database reachable")
	return nil
}

// NewDBSeedCommand creates the db seed command.
func NewDBSeedCommand(app *App) *cobra.Command {
	var watchFile bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "seed <file.sql>",
		Short: "Run a trusted SQL fixture file",
		Long: `Execute the statements in an operator-supplied SQL file against the
configured database. With --watch the file is executed again whenever it
changes, until interrupted.

MySQL needs multiStatements=true in the DSN for files with more than one
statement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSeed(cmd.Context(), app, args[0], watchFile, debounce)
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-run the file when it changes")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "settle time before re-running")

	return cmd
}

func runDBSeed(ctx context.Context, app *App, file string, watchFile bool, debounce time.Duration) error {
	c, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if !watchFile {
		return seed(ctx, c.Pool(), file)
	}

	w, err := watch.NewWatcher(file, debounce, func(ctx context.Context) error {
		return seed(ctx, c.Pool(), file)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	ui.PrintInfo("watching %s, press Ctrl+C to stop", file)
	w.Wait()
	return nil
}

func seed(ctx context.Context, p *pool.Pool, file string) error {
	script, err := afero.ReadFile(config.AppFs, file)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	start := time.Now()
	if _, err := p.Exec(ctx, string(script)); err != nil {
		return fmt.Errorf("seed %s failed: %w", file, err)
	}
	ui.PrintSuccess("seeded %s in %s", file, time.Since(start).Round(time.Millisecond))
	return nil
}
