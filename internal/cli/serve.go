package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/orbitviz/orbit/internal/api"
	"github.com/orbitviz/orbit/internal/metrics"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command running the layout HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve computed graph layouts over HTTP",
		Long: `Serve starts the layout API. Each request fetches the requested
resource neighborhood, computes the radial layout, and returns the frame
as JSON. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			prov, cleanup, err := c.newProvider(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			metrics.Register()

			server := api.New(prov, cfg.Canvas.Width, cfg.Canvas.Height, cfg.LayoutParams(), c.Logger)
			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", cfg.Server.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
