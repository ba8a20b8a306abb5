// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package algorithms implements the numerical core of demand prediction.
//
// A Pipeline standardizes feature vectors with a StandardScaler and fits a
// Ridge regressor on the result. Both are built on gonum and can be
// exported to plain state structs for gob persistence.
//
// # Thread Safety
//
// Fitted models are safe for concurrent prediction. Fitting acquires an
// exclusive lock while prediction uses a shared lock.
package algorithms
