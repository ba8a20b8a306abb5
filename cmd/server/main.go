// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/logging"
	"github.com/tomtom215/stallcast/internal/supervisor"
	"github.com/tomtom215/stallcast/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_dir", cfg.Training.ModelDir).
		Bool("retrain_enabled", cfg.Training.RetrainEnabled).
		Bool("monitor_enabled", cfg.Accuracy.MonitorEnabled).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Stallcast")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newComponents(cfg, db, logger)
	if err != nil {
		closeDatabase(db)
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.Timeout,
	})
	if err != nil {
		app.close()
		closeDatabase(db)
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if err := app.register(tree); err != nil {
		app.close()
		closeDatabase(db)
		logging.Fatal().Err(err).Msg("Failed to register services")
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           services.NewOpsRouter(db, logger),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	logging.Info().Str("addr", server.Addr).Msg("Serving /metrics and /healthz")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	app.close()
	closeDatabase(db)
	logging.Info().Msg("Stallcast stopped")
}

func closeDatabase(db *database.DB) {
	if err := db.Checkpoint(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Database checkpoint failed")
	}
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
