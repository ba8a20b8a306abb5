// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package models defines data structures for the Stallcast application.

This package holds the domain records that flow between the repository layer,
the feature pipeline, the recommendation engine and the trainer. It is the
single source of truth for the shapes persisted in DuckDB.

Key Components:

  - SalesRecord / LineItem: historical market-day sales (read-only)
  - Product / Venue: vendor catalog and market locations (read-only)
  - Recommendation: generated stock quantity with feature snapshots
  - Feedback: vendor-reported outcome for a recommendation
  - WeatherData / EventData: pre-parsed context supplied by adapters
  - ModelMetadata: sidecar metadata of a persisted vendor model

Line item quantities are decoded leniently: upstream importers have written
both JSON numbers and numeric strings, so LineItem implements
json.Unmarshaler using spf13/cast.
*/
package models
