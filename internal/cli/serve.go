package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/gsm-forecast/internal/api/http"
	"github.com/i474232898/gsm-forecast/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(ctx *Context) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast API over HTTP and run the city watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = ctx.Config.Port
			}
			return serve(cmd.Context(), ctx, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default from PORT)")
	return cmd
}

// serve runs until runCtx is cancelled, then shuts the server down.
func serve(runCtx context.Context, ctx *Context, port string) error {
	logger := ctx.Logger.With("component", "server")

	sched := scheduler.New(ctx.Config.WatchCities, ctx.Config.WatchInterval, ctx.Fetcher, ctx.Resolver, ctx.Logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(ctx.Dispatcher(), os.Stderr)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", port)
		listenErr <- app.Listen(":" + port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-runCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
