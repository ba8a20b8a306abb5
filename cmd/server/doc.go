// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package main is the Stallcast background server.

Stallcast recommends how many units of each product a market vendor should
bring to a market day. The server runs the periodic work behind those
recommendations; recommendations themselves are generated by cmd/recommend
or by embedding internal/recommend.

# Application Architecture

	RootSupervisor ("stallcast")
	├── JobsSupervisor ("jobs-layer")
	│   ├── RetrainService   feedback retrain sweep, cron training.retrain_schedule
	│   └── AccuracyService  accuracy monitor, cron accuracy.monitor_schedule
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventLog         logs model lifecycle events (events.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server      /metrics and /healthz

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB with versioned migrations
 4. Events: Watermill over NATS (events.nats_url) or an in-process channel
 5. Training and accuracy: model artifact store, trainer, tracker, monitor
 6. Supervisor tree: suture v4

# Configuration

Environment variables override the config file, for example:

	DATABASE_PATH=/data/stallcast.duckdb
	TRAINING_MODEL_DIR=/data/models
	TRAINING_RETRAIN_SCHEDULE="0 3 * * *"
	EVENTS_ENABLED=true
	EVENTS_NATS_URL=nats://localhost:4222

# Signal Handling

SIGINT and SIGTERM cancel the root context. Running jobs see the
cancellation, the HTTP server drains for up to server.timeout, and the
database is checkpointed and closed.
*/
package main
