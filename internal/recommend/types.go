// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package recommend

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/models"
)

// Request asks for one product's recommendation.
type Request struct {
	VendorID   uuid.UUID           `json:"vendor_id" validate:"required"`
	ProductID  uuid.UUID           `json:"product_id" validate:"required"`
	MarketDate time.Time           `json:"market_date" validate:"required"`
	VenueID    *uuid.UUID          `json:"venue_id,omitempty"`
	Weather    *models.WeatherData `json:"weather,omitempty"`
	Event      *models.EventData   `json:"event,omitempty"`
}

// BatchRequest asks for recommendations for a vendor's active products.
// Limit <= 0 uses recommend.default_batch_limit.
type BatchRequest struct {
	VendorID   uuid.UUID           `json:"vendor_id" validate:"required"`
	MarketDate time.Time           `json:"market_date" validate:"required"`
	VenueID    *uuid.UUID          `json:"venue_id,omitempty"`
	Weather    *models.WeatherData `json:"weather,omitempty"`
	Event      *models.EventData   `json:"event,omitempty"`
	Limit      int                 `json:"limit" validate:"min=0,max=1000"`
}

// Source identifies where a prediction came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Prediction is the tagged result of the model or fallback path.
type Prediction struct {
	Source     Source
	Quantity   int
	Confidence float64
}

// UsingFallback reports whether the fallback produced p.
func (p Prediction) UsingFallback() bool {
	return p.Source == SourceFallback
}

// clamp enforces quantity >= 1 and confidence within [0, 1].
func (p Prediction) clamp() Prediction {
	p.Quantity = max(1, p.Quantity)
	p.Confidence = min(1, max(0, p.Confidence))
	return p
}

// State is the lifecycle state of a ProductModel.
type State int

const (
	StateUntrained State = iota
	StateTrained
	StateTrainingFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUntrained:
		return "untrained"
	case StateTrained:
		return "trained"
	case StateTrainingFailed:
		return "training_failed"
	default:
		return "unknown"
	}
}
