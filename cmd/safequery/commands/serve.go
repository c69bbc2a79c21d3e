package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/satishbabariya/safequery/internal/adapters/http"
	"github.com/satishbabariya/safequery/internal/debug"
	"github.com/satishbabariya/safequery/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand(app *App) *cobra.Command {
	var addr string
	var statsEvery time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve catalog search over HTTP",
		Long: `Serve GET /search/{category} and GET /healthz.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.Config().Server.Addr = addr
			}
			return runServe(cmd.Context(), app, statsEvery)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().DurationVar(&statsEvery, "stats-interval", time.Minute, "how often to log pool statistics (0 disables)")

	return cmd
}

func runServe(ctx context.Context, app *App, statsEvery time.Duration) error {
	c, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	cfg := app.Config()
	srv := httpapi.NewServer(cfg.Server.Addr, c.Handler())

	ui.PrintInfo("serving %s on %s", c.Dialect().Name, cfg.Server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	if statsEvery > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(statsEvery)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					s := c.Pool().Stats()
					debug.Info("pool stats",
						"open", s.OpenConnections,
						"in_use", s.InUse,
						"idle", s.Idle,
						"wait_count", s.WaitCount,
						"failed_checks", s.FailedHealthChecks)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	ui.PrintSuccess("server stopped")
	return nil
}
