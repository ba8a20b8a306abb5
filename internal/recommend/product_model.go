// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/features"
	"github.com/tomtom215/stallcast/internal/metrics"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/algorithms"
)

var (
	// ErrInsufficientHistory means the product has too few usable sales to
	// fit a model. It is not a model failure.
	ErrInsufficientHistory = errors.New("insufficient sales history")

	// ErrNoSamples means no sales produced a usable feature row.
	ErrNoSamples = errors.New("no training samples extracted")

	// ErrModelUnavailable is returned by Predict unless the model is Trained.
	ErrModelUnavailable = errors.New("product model not trained")

	// ErrPredictionOutOfRange means the model produced a finite output that
	// cannot be a stock quantity.
	ErrPredictionOutOfRange = errors.New("prediction out of range")
)

// MaxPredictedQuantity bounds the magnitude of a usable model output.
const MaxPredictedQuantity = 1e6

// FeatureExtractor builds feature records.
type FeatureExtractor interface {
	Extract(ctx context.Context, in features.Input) features.Record
}

// memoizer is implemented by extractors that can cache per-product signals
// across the rows of one fit.
type memoizer interface {
	Memoized() *features.Extractor
}

// HistorySource provides the product sales a model is fitted on.
type HistorySource interface {
	ProductSales(ctx context.Context, q models.SalesQuery) ([]models.ProductSale, error)
}

// ProductModel is the per-call model for one product. It is not shared
// between calls and not safe for concurrent use.
type ProductModel struct {
	productID  uuid.UUID
	pipeline   *algorithms.Pipeline
	names      []string
	state      State
	minSamples int
	samples    int
}

// NewProductModel returns an Untrained model.
func NewProductModel(productID uuid.UUID, lambda float64, minSamples int) *ProductModel {
	return &ProductModel{
		productID:  productID,
		pipeline:   algorithms.NewPipeline(lambda),
		names:      features.Names(),
		minSamples: minSamples,
	}
}

// State returns the current lifecycle state.
func (m *ProductModel) State() State {
	return m.state
}

// Samples returns the number of rows the model was fitted on.
func (m *ProductModel) Samples() int {
	return m.samples
}

// Train fits the model on sales in [from, before). It runs at most once:
// a second call returns the outcome of the first. Any error leaves the
// model in StateTrainingFailed.
func (m *ProductModel) Train(ctx context.Context, history HistorySource, extractor FeatureExtractor, from, before time.Time, logger zerolog.Logger) error {
	switch m.state {
	case StateTrained:
		return nil
	case StateTrainingFailed:
		return ErrModelUnavailable
	}

	err := m.fit(ctx, history, extractor, from, before, logger)
	switch {
	case err == nil:
		m.state = StateTrained
		metrics.ProductModelFits.WithLabelValues("trained").Inc()
	case errors.Is(err, ErrInsufficientHistory):
		m.state = StateTrainingFailed
		metrics.ProductModelFits.WithLabelValues("insufficient").Inc()
	default:
		m.state = StateTrainingFailed
		metrics.ProductModelFits.WithLabelValues("failed").Inc()
	}
	return err
}

func (m *ProductModel) fit(ctx context.Context, history HistorySource, extractor FeatureExtractor, from, before time.Time, logger zerolog.Logger) error {
	sales, err := history.ProductSales(ctx, models.SalesQuery{
		ProductID: m.productID,
		From:      from,
		Before:    before,
	})
	if err != nil {
		return fmt.Errorf("load product sales: %w", err)
	}

	valid := make([]models.ProductSale, 0, len(sales))
	for _, s := range sales {
		if s.Quantity > 0 {
			valid = append(valid, s)
		}
	}
	if len(valid) < m.minSamples {
		return fmt.Errorf("%w: %d of %d samples", ErrInsufficientHistory, len(valid), m.minSamples)
	}

	if m, ok := extractor.(memoizer); ok {
		extractor = m.Memoized()
	}

	X := make([][]float64, 0, len(valid))
	y := make([]float64, 0, len(valid))
	for _, s := range valid {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := extractor.Extract(ctx, features.Input{
			ProductID:  m.productID,
			MarketDate: s.Date,
			Weather:    s.Weather(),
			VenueID:    s.VenueID,
		})
		row := rec.Vector(m.names)
		if !algorithms.AllFinite(row) {
			logger.Warn().
				Str("product_id", m.productID.String()).
				Time("sale_date", s.Date).
				Msg("Skipping sale with non-finite features")
			continue
		}
		X = append(X, row)
		y = append(y, s.Quantity)
	}
	if len(X) == 0 {
		logger.Warn().Str("product_id", m.productID.String()).Msg("no training samples extracted")
		return ErrNoSamples
	}

	if err := m.pipeline.Fit(X, y); err != nil {
		return fmt.Errorf("fit product model: %w", err)
	}
	m.samples = len(X)
	return nil
}

// Predict returns the raw model output for rec. Outputs beyond
// MaxPredictedQuantity in either direction are rejected.
func (m *ProductModel) Predict(rec features.Record) (float64, error) {
	if m.state != StateTrained || !m.pipeline.IsFitted() {
		return 0, ErrModelUnavailable
	}
	value, err := m.pipeline.Predict(rec.Vector(m.names))
	if err != nil {
		return 0, err
	}
	if math.Abs(value) > MaxPredictedQuantity {
		return 0, fmt.Errorf("%w: %g", ErrPredictionOutOfRange, value)
	}
	return value, nil
}
