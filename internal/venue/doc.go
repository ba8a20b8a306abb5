// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package venue derives venue- and product-level signals from sparse sales
history: per-venue sales aggregates, a volume and recency based confidence
score, month-of-year seasonality and a fixed five dimensional venue
embedding.

Every method maps missing data to a defined default. Source errors are
logged and never returned, so callers can treat venue signals as always
available.
*/
package venue
