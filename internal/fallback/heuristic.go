// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package fallback computes rule-based stocking quantities for products
// that have no usable model: the recent average, scaled for crowd size and
// weather.
package fallback

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/models"
)

// Context multipliers.
const (
	LargeCrowdAttendance  = 1000
	MediumCrowdAttendance = 500
	LargeCrowdFactor      = 1.5
	MediumCrowdFactor     = 1.3
	SunnyFactor           = 1.1
	RainyFactor           = 0.8
)

// Source provides product sales.
type Source interface {
	ProductSales(ctx context.Context, q models.SalesQuery) ([]models.ProductSale, error)
}

// Heuristic computes fallback quantities.
type Heuristic struct {
	source Source
	cfg    config.FallbackConfig
	logger zerolog.Logger
}

// NewHeuristic creates a Heuristic.
func NewHeuristic(source Source, cfg config.FallbackConfig, logger zerolog.Logger) *Heuristic {
	return &Heuristic{
		source: source,
		cfg:    cfg,
		logger: logger.With().Str("component", "fallback").Logger(),
	}
}

// Quantity returns the fallback quantity for a product on marketDate.
// Without recent sales the configured default is returned as is.
func (h *Heuristic) Quantity(ctx context.Context, productID uuid.UUID, marketDate time.Time, event *models.EventData, weather *models.WeatherData) int {
	base, ok := h.recentAverage(ctx, productID, marketDate)
	if !ok {
		return h.cfg.DefaultQuantity
	}
	return Apply(base, event, weather)
}

func (h *Heuristic) recentAverage(ctx context.Context, productID uuid.UUID, marketDate time.Time) (int, bool) {
	sales, err := h.source.ProductSales(ctx, models.SalesQuery{
		ProductID: productID,
		From:      marketDate.AddDate(0, 0, -h.cfg.LookbackDays),
		Before:    marketDate,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Recent sales lookup failed, using default quantity")
		return 0, false
	}

	var sum float64
	var n int
	for _, s := range sales {
		if s.Quantity > 0 {
			sum += s.Quantity
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(sum / float64(n))), true
}

// Apply scales base for the event and weather context. Both factors apply
// when both contexts are present. The result is at least 1.
func Apply(base int, event *models.EventData, weather *models.WeatherData) int {
	q := float64(base)

	switch attendance := event.Attendance(); {
	case attendance >= LargeCrowdAttendance:
		q *= LargeCrowdFactor
	case attendance >= MediumCrowdAttendance:
		q *= MediumCrowdFactor
	}

	switch {
	case weather.IsSunny():
		q *= SunnyFactor
	case weather.IsRainy():
		q *= RainyFactor
	}

	return max(1, int(math.Round(q)))
}
