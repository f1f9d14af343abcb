package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/api"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics over HTTP",
		Long: `Start the HTTP API.

Routes:
  GET  /healthz
  GET  /v1/metrics     evaluate without persisting (?now=RFC3339)
  POST /v1/evaluate    evaluate and persist unlocks and level-ups
  GET  /v1/heatmap     calendar intensity map
  POST /v1/events      append an alignment event
  GET  /v1/milestones  catalog with unlock state

Example:
  horizon serve --addr 127.0.0.1:8080 --db ./horizon.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				rootOpts.Config.Server.Addr = addr
			}
			return runServe(rootOpts, cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(opts *RootOptions, cmd *cobra.Command) error {
	eng, err := newEngine(opts)
	if err != nil {
		return err
	}
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	apiOpts := []api.Option{api.WithLogger(slog.Default())}
	if opts.Clock != nil {
		apiOpts = append(apiOpts, api.WithClock(opts.Clock))
	}
	srv := &http.Server{
		Addr:              opts.Config.Server.Addr,
		Handler:           api.NewServer(st, eng, apiOpts...).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "timezone", opts.Config.Timezone)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown failed", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
