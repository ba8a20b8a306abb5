// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import (
	"time"

	"github.com/google/uuid"
)

// AccuracyFilter selects recommendations by generation time. Until is
// exclusive and a zero Until means unbounded.
type AccuracyFilter struct {
	VendorID  *uuid.UUID
	ProductID *uuid.UUID
	Since     time.Time
	Until     time.Time
}

// AccuracyCounts are raw counts over a set of recommendations.
type AccuracyCounts struct {
	TotalPredictions int
	WithFeedback     int
	Accurate         int
	Overstocked      int
	Understocked     int
}

// ProductAccuracyCounts are AccuracyCounts for one product.
type ProductAccuracyCounts struct {
	ProductID uuid.UUID
	AccuracyCounts
}
