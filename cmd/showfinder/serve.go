package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/services"
	"github.com/Belphemur/ShowFinder/internal/telemetry"
	"github.com/Belphemur/ShowFinder/internal/web"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ShowFinder web page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("api_url", cfg.APIURL).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Starting ShowFinder server")

	reporter := telemetry.FromConfig(cfg, version)
	defer reporter.Flush(2 * time.Second)

	tvmaze := client.NewClient(cfg)
	defer func() {
		if err := tvmaze.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close TVmaze client")
		}
	}()

	sessionTTL := config.ParseDuration("sessions.ttl", cfg.Sessions.TTL, 30*time.Minute)
	store := services.NewStore(tvmaze, reporter, cfg.Sessions.Size, sessionTTL)
	server := web.NewServer(tvmaze, store, reporter)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start(address)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", address, err)
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown web server")
		}
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
