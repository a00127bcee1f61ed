package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/remaclabs/remac"
	httpadapter "github.com/remaclabs/remac/internal/adapters/http"
	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/internal/observability"
	"github.com/remaclabs/remac/internal/presentation/tui"
	"github.com/remaclabs/remac/pkg/adapters/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the remac engine as an HTTP server, exposing recording,
analysis, generation, and playback endpoints plus Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		store, err := buildStore(cfg)
		if err != nil {
			return err
		}
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		opts := []remac.Option{
			remac.WithStore(store),
			remac.WithLogger(logger),
			remac.WithLifecycleHooks(metrics.Hooks()),
		}
		if cfg.API.BaseURL != "" {
			opts = append(opts, remac.WithIssuer(rest.New(cfg.API.BaseURL,
				rest.WithAPIKey(cfg.API.Key),
				rest.WithKeyHeader(cfg.API.KeyHeader),
				rest.WithLogger(logger),
			)))
		}
		engine := remac.New(opts...)

		tui.PrintBanner(strings.TrimSpace(remac.Version))

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: httpadapter.NewHandler(engine, logger),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			logger.Info("shutdown signal received")
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
