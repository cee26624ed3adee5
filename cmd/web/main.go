// Command web runs the sales analytics HTTP service: dataset upload,
// normalization, summary analytics and per-product forecasting behind a
// REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"salespulse/internal/config"
	"salespulse/internal/forecast"
	"salespulse/internal/forecast/regress"
	"salespulse/internal/services"
	transport "salespulse/internal/transport/http"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.SetupLogger()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("failed to prepare directories", "error", err)
		os.Exit(1)
	}

	service := services.NewAnalyzerService(services.Config{
		Engine: forecast.Config{
			Forest: regress.ForestConfig{
				Trees:    cfg.Forecast.Trees,
				MaxDepth: cfg.Forecast.MaxDepth,
				Seed:     cfg.Forecast.Seed,
			},
			Logger: logger,
		},
		ModelPath: filepath.Join(cfg.Paths.ModelsDir, "sales_model.gob"),
		Logger:    logger,
	})

	router := transport.NewRouter(service, cfg, logger)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
