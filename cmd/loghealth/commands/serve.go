package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"loghealth/internal/api"
	"loghealth/internal/logs"
	"loghealth/internal/metrics"
	"loghealth/internal/store"
	"loghealth/internal/ttl"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	logger := logs.FromContext(ctx)

	an, err := a.newAnalyzer(logger)
	if err != nil {
		return err
	}

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Chart store
	chartStore := store.NewStore(cfg.Charts.TTL, metricsRegistry)

	// TTL cleaner
	cleaner := ttl.NewCleaner(
		chartStore,
		cfg.Charts.CleanupInterval,
		logger.Named("ttl"),
		metricsRegistry,
	)
	go cleaner.Start(ctx)

	// API
	handler := api.NewHandler(
		an,
		chartStore,
		metricsRegistry,
		logger.Named("http"),
		cfg.Charts.Options(),
	)
	mux := http.NewServeMux()
	httpHandler := api.RegisterRoutes(mux, handler, cfg.Server.MaxInputBytes)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server started", "addr", cfg.Server.Addr, "custom_rules", len(cfg.Rules))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
