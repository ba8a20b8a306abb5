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
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/features"
	"github.com/tomtom215/stallcast/internal/metrics"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/validation"
)

// breakerName labels the model-path circuit breaker in metrics.
const breakerName = "product-model"

// Store is the persistence the engine needs.
type Store interface {
	HistorySource
	ProductPrice(ctx context.Context, id uuid.UUID) (*float64, error)
	ListActiveProducts(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Product, error)
	InsertRecommendation(ctx context.Context, r *models.Recommendation) error
	FeedbackExamples(ctx context.Context, q models.FeedbackQuery) ([]models.FeedbackExample, error)
}

// VenueScorer scores trust in a venue's history for a product.
type VenueScorer interface {
	CalculateVenueConfidence(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) float64
}

// FallbackGenerator produces rule-based quantities.
type FallbackGenerator interface {
	Quantity(ctx context.Context, productID uuid.UUID, marketDate time.Time, event *models.EventData, weather *models.WeatherData) int
}

// Engine generates and stores recommendations. It is safe for concurrent
// use; the circuit breaker is the only state shared between calls.
type Engine struct {
	store     Store
	extractor FeatureExtractor
	venues    VenueScorer
	fallback  FallbackGenerator
	cfg       config.RecommendConfig
	breaker   *gobreaker.CircuitBreaker[float64]
	logger    zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewEngine creates an Engine.
func NewEngine(store Store, extractor FeatureExtractor, venues VenueScorer, fallback FallbackGenerator, cfg config.RecommendConfig, logger zerolog.Logger) *Engine {
	e := &Engine{
		store:     store,
		extractor: extractor,
		venues:    venues,
		fallback:  fallback,
		cfg:       cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		now:       time.Now,
		newID:     uuid.New,
	}
	e.breaker = newModelBreaker(cfg, e.logger)
	return e
}

func newModelBreaker(cfg config.RecommendConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[float64] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	maxFailures := max(cfg.BreakerMaxFailures, 1)
	return gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Too little history and caller cancellation are not model failures.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrInsufficientHistory) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Generate produces, stores and returns the recommendation for req.
// Data problems fall back to the heuristic; only an invalid request or a
// failed insert return an error.
func (e *Engine) Generate(ctx context.Context, req Request) (*models.Recommendation, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, err
	}

	rec := e.extractor.Extract(ctx, features.Input{
		ProductID:  req.ProductID,
		MarketDate: req.MarketDate,
		Weather:    req.Weather,
		Event:      req.Event,
		VenueID:    req.VenueID,
	})

	pred := e.predict(ctx, req, rec).clamp()

	historical := rec.Map()
	historical["using_fallback"] = pred.UsingFallback()

	r := &models.Recommendation{
		ID:                  e.newID(),
		VendorID:            req.VendorID,
		ProductID:           req.ProductID,
		VenueID:             req.VenueID,
		MarketDate:          req.MarketDate,
		RecommendedQuantity: pred.Quantity,
		ConfidenceScore:     pred.Confidence,
		PredictedRevenue:    e.revenue(ctx, req.ProductID, pred.Quantity),
		WeatherFeatures:     req.Weather.Map(),
		EventFeatures:       req.Event.Map(),
		HistoricalFeatures:  historical,
		ModelVersion:        e.cfg.ModelVersion,
		GeneratedAt:         e.now().UTC(),
	}

	if err := e.store.InsertRecommendation(ctx, r); err != nil {
		return nil, fmt.Errorf("store recommendation: %w", err)
	}
	metrics.RecordRecommendation(pred.UsingFallback())

	e.logger.Debug().
		Str("vendor_id", req.VendorID.String()).
		Str("product_id", req.ProductID.String()).
		Str("source", string(pred.Source)).
		Int("quantity", pred.Quantity).
		Float64("confidence", pred.Confidence).
		Msg("Generated recommendation")
	return r, nil
}

// predict runs the model path and falls back on any failure.
func (e *Engine) predict(ctx context.Context, req Request, rec features.Record) Prediction {
	model := NewProductModel(req.ProductID, e.cfg.RidgeLambda, e.cfg.MinHistorySamples)
	from := req.MarketDate.AddDate(0, 0, -e.cfg.HistoryLookbackDays)

	value, err := e.runModel(func() (float64, error) {
		if err := model.Train(ctx, e.store, e.extractor, from, req.MarketDate, e.logger); err != nil {
			return 0, err
		}
		return model.Predict(rec)
	})
	if err == nil {
		return Prediction{
			Source:     SourceModel,
			Quantity:   int(math.Round(value)),
			Confidence: e.modelConfidence(ctx, req),
		}
	}

	event := e.logger.Debug()
	if !errors.Is(err, ErrInsufficientHistory) && !errors.Is(err, gobreaker.ErrOpenState) {
		event = e.logger.Warn()
	}
	event.Err(err).
		Str("product_id", req.ProductID.String()).
		Str("model_state", model.State().String()).
		Msg("Model path unavailable, using fallback")

	return Prediction{
		Source:     SourceFallback,
		Quantity:   e.fallback.Quantity(ctx, req.ProductID, req.MarketDate, req.Event, req.Weather),
		Confidence: e.cfg.FallbackConfidence,
	}
}

// runModel executes fn behind the circuit breaker. An open breaker returns
// gobreaker.ErrOpenState without calling fn.
func (e *Engine) runModel(fn func() (float64, error)) (float64, error) {
	return e.breaker.Execute(fn)
}

func (e *Engine) modelConfidence(ctx context.Context, req Request) float64 {
	if req.VenueID == nil {
		return e.cfg.BaselineConfidence
	}
	return e.venues.CalculateVenueConfidence(ctx, *req.VenueID, req.ProductID, req.MarketDate)
}

// revenue returns quantity x price, or nil when the price is unknown.
func (e *Engine) revenue(ctx context.Context, productID uuid.UUID, quantity int) *float64 {
	price, err := e.store.ProductPrice(ctx, productID)
	if err != nil {
		e.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Product price lookup failed")
		return nil
	}
	if price == nil {
		return nil
	}
	v := float64(quantity) * *price
	return &v
}

// result is one item of a batch.
type result struct {
	productID uuid.UUID
	rec       *models.Recommendation
	err       error
}

// GenerateForDate generates recommendations for the vendor's active
// products. Failed items are logged and dropped; only listing the products
// can fail the batch.
func (e *Engine) GenerateForDate(ctx context.Context, req BatchRequest) ([]*models.Recommendation, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultBatchLimit
	}

	products, err := e.store.ListActiveProducts(ctx, req.VendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}

	results := make([]result, 0, len(products))
	for _, p := range products {
		rec, err := e.Generate(ctx, Request{
			VendorID:   req.VendorID,
			ProductID:  p.ID,
			MarketDate: req.MarketDate,
			VenueID:    req.VenueID,
			Weather:    req.Weather,
			Event:      req.Event,
		})
		results = append(results, result{productID: p.ID, rec: rec, err: err})
	}
	return e.collect(results), nil
}

func (e *Engine) collect(results []result) []*models.Recommendation {
	recs := make([]*models.Recommendation, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			metrics.RecommendationBatchFailures.Inc()
			e.logger.Error().Err(r.err).Str("product_id", r.productID.String()).Msg("Recommendation failed, skipping product")
			continue
		}
		recs = append(recs, r.rec)
	}
	return recs
}

// FeedbackForTraining returns rated feedback joined to its recommendation
// for recommendations with market dates in the last daysBack days. A nil
// vendorID covers every vendor.
func (e *Engine) FeedbackForTraining(ctx context.Context, vendorID *uuid.UUID, daysBack, minRating int) ([]models.FeedbackExample, error) {
	examples, err := e.store.FeedbackExamples(ctx, models.FeedbackQuery{
		VendorID:  vendorID,
		Since:     e.now().UTC().AddDate(0, 0, -daysBack),
		MinRating: minRating,
	})
	if err != nil {
		return nil, fmt.Errorf("load feedback examples: %w", err)
	}
	return examples, nil
}
