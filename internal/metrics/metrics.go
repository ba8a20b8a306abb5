// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Recommendation Metrics
	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_recommendations_total",
			Help: "Total number of generated recommendations by source",
		},
		[]string{"source"}, // "model", "fallback"
	)

	RecommendationBatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stallcast_recommendation_batch_failures_total",
			Help: "Total number of products dropped from batch generation after an error",
		},
	)

	ProductModelFits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_product_model_fits_total",
			Help: "Per-call product model fit attempts by outcome",
		},
		[]string{"outcome"}, // "trained", "insufficient", "failed"
	)

	// Vendor Model Metrics
	ModelTrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_model_training_total",
			Help: "Vendor model training runs by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "sales", "feedback"; outcome: "trained", "skipped", "failed"
	)

	ModelReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_model_replacements_total",
			Help: "Compare-then-replace decisions for retrained candidates",
		},
		[]string{"outcome"}, // "installed", "rejected"
	)

	ModelMAE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stallcast_model_mae",
			Help: "Hold-out mean absolute error of the installed vendor model",
		},
		[]string{"vendor"},
	)

	RetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stallcast_retrain_duration_seconds",
			Help:    "Duration of a retrain sweep over all vendors",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800},
		},
	)

	// Accuracy Metrics
	PredictionAccuracyRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stallcast_prediction_accuracy_rate",
			Help: "Prediction accuracy percentage from the last monitor run",
		},
		[]string{"scope"}, // "overall" or a vendor ID
	)

	VendorsMeetingCriterion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stallcast_vendors_meeting_criterion",
			Help: "Number of vendors at or above the accuracy success threshold",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stallcast_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_http_requests_total",
			Help: "Requests served by the operational HTTP server",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stallcast_http_request_duration_seconds",
			Help:    "Request latency of the operational HTTP server",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stallcast_http_active_requests",
			Help: "Requests currently in flight",
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stallcast_events_published_total",
			Help: "Model lifecycle events published by topic and result",
		},
		[]string{"topic", "result"}, // result: "success", "error"
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordRecommendation counts a generated recommendation.
func RecordRecommendation(usingFallback bool) {
	source := "model"
	if usingFallback {
		source = "fallback"
	}
	RecommendationsGenerated.WithLabelValues(source).Inc()
}

// RecordTraining counts a vendor model training run.
func RecordTraining(kind string, produced bool, err error) {
	outcome := "trained"
	switch {
	case err != nil:
		outcome = "failed"
	case !produced:
		outcome = "skipped"
	}
	ModelTrainingRuns.WithLabelValues(kind, outcome).Inc()
}

// RecordReplacement counts a compare-then-replace decision.
func RecordReplacement(installed bool) {
	if installed {
		ModelReplacements.WithLabelValues("installed").Inc()
		return
	}
	ModelReplacements.WithLabelValues("rejected").Inc()
}

// RecordHTTPRequest records one served request. route is the matched
// route pattern, not the raw path.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordEventPublish counts a published event.
func RecordEventPublish(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}
