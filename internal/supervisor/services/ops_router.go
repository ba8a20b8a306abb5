// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package services

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/middleware"
)

// healthCheckTimeout bounds the database ping behind /healthz.
const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Uptime    float64   `json:"uptime_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOpsRouter returns the operational HTTP surface: Prometheus metrics
// and a health check. There are no application endpoints.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOpsRouter(db Pinger, logger zerolog.Logger) http.Handler {
	started := time.Now()
	logger = logger.With().Str("component", "http").Logger()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger(logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()

		resp := HealthResponse{
			Status:    "ok",
			Database:  "ok",
			Uptime:    time.Since(started).Seconds(),
			Timestamp: time.Now().UTC(),
		}
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("request_id", chimiddleware.GetReqID(req.Context())).Msg("Health check failed")
			resp.Status = "unavailable"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp, logger)
	})
	return r
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func writeJSON(w http.ResponseWriter, status int, v any, logger zerolog.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Msg("Failed to write JSON response")
	}
}
