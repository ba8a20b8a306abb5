// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package middleware provides HTTP middleware for the operational server.

  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by
    the matched chi route pattern so unknown paths cannot grow label
    cardinality.
  - RequestLogger: one debug line per request with chi's request ID.

Both are chi-style func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger(logger))
*/
package middleware
