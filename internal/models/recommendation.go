// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a generated stock quantity for one product on one market
// date. Feature snapshots are stored so feedback can later be turned into
// training examples without re-deriving context.
type Recommendation struct {
	ID                  uuid.UUID      `json:"id"`
	VendorID            uuid.UUID      `json:"vendor_id"`
	ProductID           uuid.UUID      `json:"product_id"`
	VenueID             *uuid.UUID     `json:"venue_id,omitempty"`
	MarketDate          time.Time      `json:"market_date"`
	RecommendedQuantity int            `json:"recommended_quantity"`
	ConfidenceScore     float64        `json:"confidence_score"`
	PredictedRevenue    *float64       `json:"predicted_revenue,omitempty"`
	WeatherFeatures     map[string]any `json:"weather_features"`
	EventFeatures       map[string]any `json:"event_features"`
	HistoricalFeatures  map[string]any `json:"historical_features"`
	ModelVersion        string         `json:"model_version"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

// UsingFallback reports whether the quantity came from the rule-based
// heuristic rather than a fitted model.
func (r *Recommendation) UsingFallback() bool {
	v, ok := r.HistoricalFeatures["using_fallback"].(bool)
	return ok && v
}
