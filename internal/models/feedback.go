// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// AccuracyTolerancePercent is the variance band within which a recommendation
// counts as accurate.
const AccuracyTolerancePercent = 20.0

// NeutralRating stands in for feedback submitted without a rating.
const NeutralRating = 3

// Feedback is a vendor-reported outcome for a recommendation.
type Feedback struct {
	ID                 uuid.UUID `json:"id"`
	RecommendationID   uuid.UUID `json:"recommendation_id"`
	VendorID           uuid.UUID `json:"vendor_id"`
	ActualQuantitySold *int      `json:"actual_quantity_sold,omitempty"`
	ActualRevenue      *float64  `json:"actual_revenue,omitempty"`
	Rating             *int      `json:"rating,omitempty"`
	Comments           string    `json:"comments,omitempty"`
	QuantityVariance   *float64  `json:"quantity_variance,omitempty"`
	VariancePercentage *float64  `json:"variance_percentage,omitempty"`
	WasAccurate        *bool     `json:"was_accurate,omitempty"`
	WasOverstocked     *bool     `json:"was_overstocked,omitempty"`
	WasUnderstocked    *bool     `json:"was_understocked,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// VarianceClass is the accuracy classification derived from a recommended and
// an actual quantity.
type VarianceClass struct {
	Variance        float64
	Percentage      float64
	WasAccurate     bool
	WasOverstocked  bool
	WasUnderstocked bool
}

// ClassifyVariance compares the actual quantity sold against the recommended
// quantity. A percentage exactly at the tolerance still counts as accurate.
func ClassifyVariance(recommended, actual int) VarianceClass {
	variance := float64(actual - recommended)
	pct := 0.0
	if recommended != 0 {
		pct = variance / float64(recommended) * 100
	}
	return VarianceClass{
		Variance:        variance,
		Percentage:      pct,
		WasAccurate:     math.Abs(pct) <= AccuracyTolerancePercent,
		WasOverstocked:  pct < -AccuracyTolerancePercent,
		WasUnderstocked: pct > AccuracyTolerancePercent,
	}
}

// Classify fills the derived accuracy fields from the recommended quantity.
// Feedback without an actual quantity is left unclassified.
func (f *Feedback) Classify(recommended int) {
	if f.ActualQuantitySold == nil {
		f.QuantityVariance = nil
		f.VariancePercentage = nil
		f.WasAccurate = nil
		f.WasOverstocked = nil
		f.WasUnderstocked = nil
		return
	}
	c := ClassifyVariance(recommended, *f.ActualQuantitySold)
	f.QuantityVariance = &c.Variance
	f.VariancePercentage = &c.Percentage
	f.WasAccurate = &c.WasAccurate
	f.WasOverstocked = &c.WasOverstocked
	f.WasUnderstocked = &c.WasUnderstocked
}

// FeedbackExample is a recommendation joined with its feedback, flattened for
// training.
type FeedbackExample struct {
	RecommendationID    uuid.UUID      `json:"recommendation_id"`
	VendorID            uuid.UUID      `json:"vendor_id"`
	ProductID           uuid.UUID      `json:"product_id"`
	MarketDate          time.Time      `json:"market_date"`
	DayOfWeek           int            `json:"day_of_week"`
	RecommendedQuantity int            `json:"recommended_quantity"`
	WeatherFeatures     map[string]any `json:"weather_features"`
	EventFeatures       map[string]any `json:"event_features"`
	HistoricalFeatures  map[string]any `json:"historical_features"`
	ActualQuantitySold  *int           `json:"actual_quantity_sold,omitempty"`
	ActualRevenue       *float64       `json:"actual_revenue,omitempty"`
	VariancePercentage  *float64       `json:"variance_percentage,omitempty"`
	WasAccurate         *bool          `json:"was_accurate,omitempty"`
	Rating              *int           `json:"rating,omitempty"`
}

// Weekday returns the day of week with Monday as 0.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FeedbackQuery selects feedback joined to recommendations. A nil VendorID
// selects all vendors. MinRating <= 0 disables the rating filter. Unrated
// feedback is filtered as NeutralRating.
type FeedbackQuery struct {
	VendorID  *uuid.UUID
	Since     time.Time
	MinRating int
}
