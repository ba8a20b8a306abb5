// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package features assembles the flat feature record used both to fit and
// to query per-product demand models. Temporal, weather, event, trailing
// history, seasonality and venue signals are combined under a fixed name
// set so training and prediction vectors always line up.
package features
