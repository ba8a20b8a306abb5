// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package config provides centralized configuration management for Stallcast.

Configuration is layered with Koanf v2:

 1. Defaults from defaultConfig()
 2. An optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
 3. Environment variables, mapped explicitly by envTransformFunc

Unmapped environment variables are ignored so unrelated process environment
cannot leak into configuration.

# Sections

  - Database: DuckDB file, memory limit and thread count
  - Server: operational HTTP listener (metrics and health only)
  - Recommend: per-call model thresholds, confidence constants, breaker
  - Venue: venue confidence tiers, lookback and seasonality threshold
  - Fallback: rule-based default quantity and recent-history window
  - Training: model directory, minimum record counts, retrain schedule
  - Accuracy: success criterion and monitor schedule
  - Events: model lifecycle event publishing (in-process or NATS)
  - Logging: level, format and caller info

# Environment Variables

  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - HTTP_HOST, HTTP_PORT
  - RECOMMEND_MIN_HISTORY_SAMPLES, RECOMMEND_BASELINE_CONFIDENCE
  - FALLBACK_DEFAULT_QUANTITY, FALLBACK_LOOKBACK_DAYS
  - MODEL_DIR, TRAINING_MIN_SALES_RECORDS, TRAINING_MIN_FEEDBACK_RECORDS
  - RETRAIN_ENABLED, RETRAIN_SCHEDULE, RETRAIN_ON_STARTUP
  - ACCURACY_MONITOR_ENABLED, ACCURACY_MONITOR_SCHEDULE
  - EVENTS_ENABLED, NATS_URL
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

See envTransformFunc for the complete mapping.
*/
package config
