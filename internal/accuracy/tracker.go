// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package accuracy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/models"
)

// Defaults used by callers that have no explicit window or thresholds.
const (
	DefaultDaysBack       = 30
	DefaultMinPredictions = 5
	DefaultPoorThreshold  = 50.0
)

// Store is the read side the tracker needs.
type Store interface {
	AccuracyCounts(ctx context.Context, filter models.AccuracyFilter) (models.AccuracyCounts, error)
	ProductAccuracyCounts(ctx context.Context, filter models.AccuracyFilter) ([]models.ProductAccuracyCounts, error)
	VendorsWithRecommendations(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

// Metrics are accuracy figures over one window. Rates are percentages.
type Metrics struct {
	TotalPredictions        int     `json:"total_predictions"`
	PredictionsWithFeedback int     `json:"predictions_with_feedback"`
	AccuratePredictions     int     `json:"accurate_predictions"`
	AccuracyRate            float64 `json:"accuracy_rate"`
	OverstockRate           float64 `json:"overstock_rate"`
	UnderstockRate          float64 `json:"understock_rate"`
	MeetsSuccessCriterion   bool    `json:"meets_success_criterion"`
}

// ProductAccuracy is Metrics for one product.
type ProductAccuracy struct {
	ProductID uuid.UUID `json:"product_id"`
	Metrics
}

// WeekAccuracy is one trailing 7-day window of a trend.
type WeekAccuracy struct {
	WeekStart      time.Time `json:"week_start"`
	WeekEnd        time.Time `json:"week_end"`
	FeedbackCount  int       `json:"feedback_count"`
	AccurateCount  int       `json:"accurate_count"`
	AccuracyRate   float64   `json:"accuracy_rate"`
	MeetsCriterion bool      `json:"meets_criterion"`
}

// Tracker computes accuracy metrics from stored recommendations and
// feedback.
type Tracker struct {
	store     Store
	threshold float64
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTracker creates a tracker using cfg.SuccessThreshold as the success
// criterion.
func NewTracker(store Store, cfg config.AccuracyConfig, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:     store,
		threshold: cfg.SuccessThreshold,
		logger:    logger.With().Str("component", "accuracy").Logger(),
		now:       time.Now,
	}
}

// Threshold returns the success criterion in percent.
func (t *Tracker) Threshold() float64 {
	return t.threshold
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func (t *Tracker) metrics(c models.AccuracyCounts) Metrics {
	m := Metrics{
		TotalPredictions:        c.TotalPredictions,
		PredictionsWithFeedback: c.WithFeedback,
		AccuratePredictions:     c.Accurate,
		AccuracyRate:            percent(c.Accurate, c.WithFeedback),
		OverstockRate:           percent(c.Overstocked, c.WithFeedback),
		UnderstockRate:          percent(c.Understocked, c.WithFeedback),
	}
	m.MeetsSuccessCriterion = c.WithFeedback > 0 && m.AccuracyRate >= t.threshold
	return m
}

func (t *Tracker) since(daysBack int) time.Time {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	return t.now().UTC().AddDate(0, 0, -daysBack)
}

func (t *Tracker) compute(ctx context.Context, filter models.AccuracyFilter) (Metrics, error) {
	counts, err := t.store.AccuracyCounts(ctx, filter)
	if err != nil {
		return Metrics{}, err
	}
	return t.metrics(counts), nil
}

// VendorAccuracy returns vendorID's metrics over the last daysBack days.
func (t *Tracker) VendorAccuracy(ctx context.Context, vendorID uuid.UUID, daysBack int) (Metrics, error) {
	m, err := t.compute(ctx, models.AccuracyFilter{VendorID: &vendorID, Since: t.since(daysBack)})
	if err != nil {
		return Metrics{}, fmt.Errorf("vendor %s accuracy: %w", vendorID, err)
	}
	return m, nil
}

// ProductAccuracy returns productID's metrics over the last daysBack days.
func (t *Tracker) ProductAccuracy(ctx context.Context, productID uuid.UUID, daysBack int) (Metrics, error) {
	m, err := t.compute(ctx, models.AccuracyFilter{ProductID: &productID, Since: t.since(daysBack)})
	if err != nil {
		return Metrics{}, fmt.Errorf("product %s accuracy: %w", productID, err)
	}
	return m, nil
}

// OverallAccuracy returns metrics across all vendors over the last daysBack
// days.
func (t *Tracker) OverallAccuracy(ctx context.Context, daysBack int) (Metrics, error) {
	m, err := t.compute(ctx, models.AccuracyFilter{Since: t.since(daysBack)})
	if err != nil {
		return Metrics{}, fmt.Errorf("overall accuracy: %w", err)
	}
	return m, nil
}

// Trend returns vendorID's accuracy for each of the last weeks trailing
// 7-day windows, most recent first. Windows without feedback are omitted.
func (t *Tracker) Trend(ctx context.Context, vendorID uuid.UUID, weeks int) ([]WeekAccuracy, error) {
	end := t.now().UTC()
	var trend []WeekAccuracy
	for i := 0; i < weeks; i++ {
		start := end.AddDate(0, 0, -7)
		counts, err := t.store.AccuracyCounts(ctx, models.AccuracyFilter{VendorID: &vendorID, Since: start, Until: end})
		if err != nil {
			return nil, fmt.Errorf("vendor %s accuracy for week of %s: %w", vendorID, start.Format(time.DateOnly), err)
		}
		if counts.WithFeedback > 0 {
			rate := percent(counts.Accurate, counts.WithFeedback)
			trend = append(trend, WeekAccuracy{
				WeekStart:      start,
				WeekEnd:        end,
				FeedbackCount:  counts.WithFeedback,
				AccurateCount:  counts.Accurate,
				AccuracyRate:   rate,
				MeetsCriterion: rate >= t.threshold,
			})
		}
		end = start
	}
	return trend, nil
}

// PoorlyPerformingProducts returns vendorID's products with at least
// minPredictions feedback-bearing predictions and an accuracy rate below
// threshold, worst first.
func (t *Tracker) PoorlyPerformingProducts(ctx context.Context, vendorID uuid.UUID, minPredictions int, threshold float64, daysBack int) ([]ProductAccuracy, error) {
	rows, err := t.store.ProductAccuracyCounts(ctx, models.AccuracyFilter{VendorID: &vendorID, Since: t.since(daysBack)})
	if err != nil {
		return nil, fmt.Errorf("vendor %s product accuracy: %w", vendorID, err)
	}

	var poor []ProductAccuracy
	for _, row := range rows {
		if row.WithFeedback < minPredictions {
			continue
		}
		m := t.metrics(row.AccuracyCounts)
		if m.AccuracyRate < threshold {
			poor = append(poor, ProductAccuracy{ProductID: row.ProductID, Metrics: m})
		}
	}
	sort.SliceStable(poor, func(i, j int) bool {
		return poor[i].AccuracyRate < poor[j].AccuracyRate
	})
	return poor, nil
}
