// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package metrics provides Prometheus metrics for Stallcast.

Collectors are registered on the default registry through promauto and are
exposed at /metrics by the operational HTTP service.

# Available Metrics

Recommendations:
  - stallcast_recommendations_total{source}: generated recommendations, source is model or fallback
  - stallcast_recommendation_batch_failures_total: products dropped from batch generation
  - stallcast_product_model_fits_total{outcome}: per-call product model fits (trained, insufficient, failed)

Vendor models:
  - stallcast_model_training_total{kind,outcome}: bulk and feedback training runs
  - stallcast_model_replacements_total{outcome}: compare-then-replace decisions
  - stallcast_model_mae{vendor}: hold-out MAE of the installed model
  - stallcast_retrain_duration_seconds: duration of a full retrain sweep

Accuracy:
  - stallcast_prediction_accuracy_rate{scope}: accuracy percentage from the last monitor run
  - stallcast_vendors_meeting_criterion: vendors at or above the success threshold

Infrastructure:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}
  - circuit_breaker_state{name}, circuit_breaker_state_transitions_total{name,from_state,to_state}
  - stallcast_events_published_total{topic,result}
*/
package metrics
