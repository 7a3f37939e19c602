package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/vellum"
	fileAdapter "github.com/aretw0/vellum/internal/adapters/file"
	httpAdapter "github.com/aretw0/vellum/internal/adapters/http"
	redisAdapter "github.com/aretw0/vellum/internal/adapters/redis"
	"github.com/aretw0/vellum/internal/config"
	"github.com/aretw0/vellum/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Vellum rendering service, exposing template management and rendering as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		if err := runServe(configPath, addr); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides configuration)")
}

func runServe(configPath, addrOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	opts := []vellum.Option{vellum.WithLogger(logger)}
	var closeStore func() error

	switch cfg.Storage.Backend {
	case "memory":
		// The facade already defaults to the memory store.
	case "file":
		opts = append(opts, vellum.WithStore(fileAdapter.NewStore(cfg.Storage.Path)))
	case "redis":
		store := redisAdapter.New(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		closeStore = store.Close
		opts = append(opts, vellum.WithStore(store))
	}
	if closeStore != nil {
		defer func() { _ = closeStore() }()
	}

	registry := prometheus.NewRegistry()
	opts = append(opts, vellum.WithMetrics(registry))

	svc := vellum.New(opts...)
	metrics := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	handler := httpAdapter.NewHandler(svc, logger, metrics)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "backend", cfg.Storage.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}

	return nil
}
