// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package venue

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/models"
)

// Confidence tiers.
const (
	NoHistoryConfidence   = 0.3
	StaleConfidence       = 0.5
	LowSampleConfidence   = 0.4
	MidSampleConfidence   = 0.6
	HighSampleConfidence  = 0.85
	NoSaleDaysAgo         = 999
	EmbeddingSize         = 5
	neutralEmbeddingValue = 0.5
)

// Source is the read side the engineer needs from the sales store.
type Source interface {
	ProductSales(ctx context.Context, q models.SalesQuery) ([]models.ProductSale, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	VenueSalesSummary(ctx context.Context, venueID uuid.UUID) (models.VenueSummary, error)
}

// Features aggregates the sales of one product at one venue.
type Features struct {
	AvgSales        float64 `json:"venue_avg_sales"`
	MaxSales        float64 `json:"venue_max_sales"`
	SalesCount      int     `json:"venue_sales_count"`
	LastSaleDaysAgo int     `json:"venue_last_sale_days_ago"`
}

// coldFeatures is returned for a venue and product without history.
var coldFeatures = Features{LastSaleDaysAgo: NoSaleDaysAgo}

// Map returns the flat snapshot form.
func (f Features) Map() map[string]any {
	return map[string]any{
		"venue_avg_sales":          f.AvgSales,
		"venue_max_sales":          f.MaxSales,
		"venue_sales_count":        f.SalesCount,
		"venue_last_sale_days_ago": f.LastSaleDaysAgo,
	}
}

// Engineer computes venue signals. It is read-only and safe for concurrent use.
type Engineer struct {
	source Source
	cfg    config.VenueConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngineer creates an Engineer reading from source.
func NewEngineer(source Source, cfg config.VenueConfig, logger zerolog.Logger) *Engineer {
	return &Engineer{
		source: source,
		cfg:    cfg,
		logger: logger.With().Str("component", "venue").Logger(),
		now:    time.Now,
	}
}

// venueSales returns the product's sales at the venue inside the lookback
// window, strictly before marketDate.
func (e *Engineer) venueSales(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) []models.ProductSale {
	q := models.SalesQuery{ProductID: productID, VenueID: &venueID, Before: marketDate}
	if e.cfg.LookbackDays > 0 {
		q.From = marketDate.AddDate(0, 0, -e.cfg.LookbackDays)
	}
	sales, err := e.source.ProductSales(ctx, q)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("venue_id", venueID.String()).
			Str("product_id", productID.String()).
			Msg("Venue sales lookup failed, using cold defaults")
		return nil
	}

	valid := sales[:0:0]
	for _, s := range sales {
		if s.Quantity > 0 {
			valid = append(valid, s)
		}
	}
	return valid
}

// daysBetween returns whole days from earlier to later.
func daysBetween(earlier, later time.Time) int {
	return int(math.Floor(later.Sub(earlier).Hours() / 24))
}

// ExtractVenueFeatures aggregates the product's sales at the venue before
// marketDate. No matching sales give the cold block.
func (e *Engineer) ExtractVenueFeatures(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) Features {
	sales := e.venueSales(ctx, venueID, productID, marketDate)
	if len(sales) == 0 {
		return coldFeatures
	}

	f := Features{SalesCount: len(sales)}
	var total float64
	last := sales[0].Date
	for _, s := range sales {
		total += s.Quantity
		f.MaxSales = math.Max(f.MaxSales, s.Quantity)
		if s.Date.After(last) {
			last = s.Date
		}
	}
	f.AvgSales = total / float64(len(sales))
	f.LastSaleDaysAgo = daysBetween(last, marketDate)
	return f
}

// CalculateVenueConfidence scores how much the venue's history for the
// product can be trusted on marketDate.
func (e *Engineer) CalculateVenueConfidence(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) float64 {
	f := e.ExtractVenueFeatures(ctx, venueID, productID, marketDate)
	return confidence(f.SalesCount, f.LastSaleDaysAgo, e.cfg)
}

// ConfidenceFor applies the default confidence tiers to a sales count and
// the days since the latest sale.
func ConfidenceFor(count, lastSaleDaysAgo int) float64 {
	return confidence(count, lastSaleDaysAgo, config.VenueConfig{
		StalenessDays:         180,
		MinSamples:            3,
		HighConfidenceSamples: 20,
	})
}

// confidence is non-decreasing in count for a fixed recency. Staleness is
// checked before volume.
func confidence(count, lastSaleDaysAgo int, cfg config.VenueConfig) float64 {
	switch {
	case count <= 0:
		return NoHistoryConfidence
	case lastSaleDaysAgo > cfg.StalenessDays:
		return StaleConfidence
	case count < cfg.MinSamples:
		return LowSampleConfidence
	case count >= cfg.HighConfidenceSamples:
		return HighSampleConfidence
	}
	span := float64(cfg.HighConfidenceSamples - cfg.MinSamples)
	return MidSampleConfidence + (HighSampleConfidence-MidSampleConfidence)*float64(count-cfg.MinSamples)/span
}

// MonthlyPattern returns the average quantity per sale for every calendar
// month in the product's full history.
func (e *Engineer) MonthlyPattern(ctx context.Context, productID uuid.UUID) map[int]float64 {
	sales, err := e.source.ProductSales(ctx, models.SalesQuery{ProductID: productID})
	if err != nil {
		e.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Monthly pattern lookup failed")
		return map[int]float64{}
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range sales {
		if s.Quantity <= 0 {
			continue
		}
		m := int(s.Date.Month())
		sums[m] += s.Quantity
		counts[m]++
	}

	pattern := make(map[int]float64, len(sums))
	for m, sum := range sums {
		pattern[m] = sum / float64(counts[m])
	}
	return pattern
}

// SeasonalZScore returns the z-score of month within pattern using the
// population standard deviation. ok is false when the pattern covers fewer
// than three months, lacks month, or has zero spread.
func SeasonalZScore(pattern map[int]float64, month int) (z float64, ok bool) {
	target, present := pattern[month]
	if len(pattern) < 3 || !present {
		return 0, false
	}

	months := make([]int, 0, len(pattern))
	for m := range pattern {
		months = append(months, m)
	}
	sort.Ints(months)
	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = pattern[m]
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std := math.Sqrt(variance)
	if std == 0 || math.IsNaN(std) {
		return 0, false
	}
	return (target - mean) / std, true
}

// IsSeasonalProduct reports whether month sells well above the product's
// typical month.
func (e *Engineer) IsSeasonalProduct(ctx context.Context, productID uuid.UUID, month int) bool {
	z, ok := SeasonalZScore(e.MonthlyPattern(ctx, productID), month)
	return ok && z > e.cfg.SeasonalZThreshold
}

// Seasonality summarizes one calendar month against the product's monthly
// pattern.
type Seasonality struct {
	IsSeasonal bool
	Strength   float64
	MonthAvg   float64
}

// SeasonalProfile evaluates month against the product's monthly pattern.
// Strength is (month average - mean)/(mean + 1) and is 0 for a month with
// no sales.
func (e *Engineer) SeasonalProfile(ctx context.Context, productID uuid.UUID, month int) Seasonality {
	pattern := e.MonthlyPattern(ctx, productID)
	monthAvg, ok := pattern[month]
	if !ok {
		return Seasonality{}
	}

	var mean float64
	for _, v := range pattern {
		mean += v
	}
	mean /= float64(len(pattern))

	z, ok := SeasonalZScore(pattern, month)
	return Seasonality{
		IsSeasonal: ok && z > e.cfg.SeasonalZThreshold,
		Strength:   (monthAvg - mean) / (mean + 1),
		MonthAvg:   monthAvg,
	}
}

// GenerateVenueEmbedding returns the venue's normalized attendance,
// latitude, longitude, lifetime sales volume and age. An unknown venue
// embeds as all zeros.
func (e *Engineer) GenerateVenueEmbedding(ctx context.Context, venueID uuid.UUID) [EmbeddingSize]float64 {
	var embedding [EmbeddingSize]float64

	v, err := e.source.GetVenue(ctx, venueID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			e.logger.Warn().Err(err).Str("venue_id", venueID.String()).Msg("Venue lookup failed")
		}
		return embedding
	}

	embedding[0] = neutralEmbeddingValue
	if v.TypicalAttendance != nil {
		embedding[0] = float64(*v.TypicalAttendance) / 1000
	}
	embedding[1] = neutralEmbeddingValue
	if v.Latitude != nil {
		embedding[1] = *v.Latitude / 90
	}
	embedding[2] = neutralEmbeddingValue
	if v.Longitude != nil {
		embedding[2] = *v.Longitude / 180
	}

	summary, err := e.source.VenueSalesSummary(ctx, venueID)
	if err != nil {
		e.logger.Warn().Err(err).Str("venue_id", venueID.String()).Msg("Venue sales summary failed")
		return embedding
	}
	embedding[3] = math.Min(summary.TotalQuantity/1000, 1)
	if summary.FirstSale != nil {
		age := float64(daysBetween(*summary.FirstSale, e.now()))
		embedding[4] = math.Max(0, math.Min(age/365, 1))
	}
	return embedding
}
