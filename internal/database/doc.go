// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package database provides DuckDB persistence for Stallcast.

DB owns a single *sql.DB opened with the duckdb-go driver and implements the
read interfaces consumed by the feature pipeline, recommendation engine,
trainer and accuracy tracker. Writes are limited to recommendation rows,
feedback rows and the versioned model index.

# Tables

  - products, venues: vendor catalog and market locations
  - sales: market-day sales; line_items is a JSON array stored as text
  - recommendations: generated quantities with JSON feature snapshots
  - recommendation_feedback: vendor-reported outcomes
  - model_versions: versioned index of persisted vendor models
  - schema_migrations: applied migration versions

IDs are stored as canonical UUID text. Timestamps are stored as UTC
TIMESTAMP values so no timezone extension is required.

# Model Index

InstallModelVersion implements compare-then-replace: it reads the latest
version, asks the caller whether to accept the candidate, persists the
artifact and inserts the new index row inside one transaction. A failed
insert or commit discards the artifact, so the index never points at a
missing file and a rejected candidate leaves nothing behind.
*/
package database
