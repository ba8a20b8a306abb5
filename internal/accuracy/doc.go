// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package accuracy measures how well recommendations matched what vendors
// actually sold.
//
// A recommendation is accurate when its feedback's actual quantity is
// within the accuracy band of the recommended quantity (see
// models.ClassifyVariance). Rates are percentages over recommendations that
// have feedback; the success criterion is a rate at or above
// accuracy.success_threshold (70 by default). Windows select
// recommendations by generated_at.
//
// Monitor runs the overall and per-vendor computation on a schedule,
// updates the Prometheus gauges and publishes an accuracy.report event.
package accuracy
