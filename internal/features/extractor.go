// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package features

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/venue"
)

// Weather defaults for a market day without a forecast.
const (
	DefaultTempF    = 70.0
	DefaultHumidity = 50.0
)

// Feature names.
const (
	DayOfWeek            = "day_of_week"
	Month                = "month"
	DayOfMonth           = "day_of_month"
	TempF                = "temp_f"
	FeelsLikeF           = "feels_like_f"
	Humidity             = "humidity"
	IsSunny              = "is_sunny"
	IsRainy              = "is_rainy"
	IsSpecialEvent       = "is_special_event"
	ExpectedAttendance   = "expected_attendance"
	AvgSalesLast7d       = "avg_sales_last_7d"
	AvgSalesLast14d      = "avg_sales_last_14d"
	IsSeasonal           = "is_seasonal"
	SeasonalStrength     = "seasonal_strength"
	MonthAvgSales        = "month_avg_sales"
	VenueAvgSales        = "venue_avg_sales"
	VenueMaxSales        = "venue_max_sales"
	VenueSalesCount      = "venue_sales_count"
	VenueLastSaleDaysAgo = "venue_last_sale_days_ago"
	venueEmbeddingPrefix = "venue_embedding_"
)

// VenueEmbeddingNames are the names of the expanded venue embedding.
var VenueEmbeddingNames = func() []string {
	names := make([]string, venue.EmbeddingSize)
	for i := range names {
		names[i] = venueEmbeddingPrefix + strconv.Itoa(i)
	}
	return names
}()

// BaseNames lists every feature present in every record.
var BaseNames = []string{
	DayOfWeek, Month, DayOfMonth,
	TempF, FeelsLikeF, Humidity, IsSunny, IsRainy,
	IsSpecialEvent, ExpectedAttendance,
	AvgSalesLast7d, AvgSalesLast14d,
	IsSeasonal, SeasonalStrength, MonthAvgSales,
	VenueAvgSales, VenueMaxSales, VenueSalesCount, VenueLastSaleDaysAgo,
}

// Names returns the full, ordered feature schema used for model vectors.
func Names() []string {
	names := make([]string, 0, len(BaseNames)+len(VenueEmbeddingNames))
	names = append(names, BaseNames...)
	return append(names, VenueEmbeddingNames...)
}

// HistorySource provides product sales for trailing aggregates.
type HistorySource interface {
	ProductSales(ctx context.Context, q models.SalesQuery) ([]models.ProductSale, error)
}

// VenueSignals provides seasonality and venue features.
type VenueSignals interface {
	ExtractVenueFeatures(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) venue.Features
	GenerateVenueEmbedding(ctx context.Context, venueID uuid.UUID) [venue.EmbeddingSize]float64
	SeasonalProfile(ctx context.Context, productID uuid.UUID, month int) venue.Seasonality
}

// Input is the context of one extraction. Nil fields are absent inputs.
type Input struct {
	ProductID  uuid.UUID
	MarketDate time.Time
	Weather    *models.WeatherData
	Event      *models.EventData
	VenueID    *uuid.UUID
}

// Extractor builds feature records.
type Extractor struct {
	history HistorySource
	venues  VenueSignals
	logger  zerolog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(history HistorySource, venues VenueSignals, logger zerolog.Logger) *Extractor {
	return &Extractor{
		history: history,
		venues:  venues,
		logger:  logger.With().Str("component", "features").Logger(),
	}
}

// Extract returns the feature record for in. Absent inputs resolve to
// defaults and history lookups that fail resolve to zeros.
func (x *Extractor) Extract(ctx context.Context, in Input) Record {
	r := newRecord(in.VenueID != nil)

	r.set(DayOfWeek, float64(models.Weekday(in.MarketDate)))
	r.set(Month, float64(in.MarketDate.Month()))
	r.set(DayOfMonth, float64(in.MarketDate.Day()))

	x.weather(r, in.Weather)

	r.set(IsSpecialEvent, boolValue(in.Event != nil && in.Event.IsSpecial))
	r.set(ExpectedAttendance, float64(in.Event.Attendance()))

	avg7, avg14 := x.trailingAverages(ctx, in.ProductID, in.MarketDate)
	r.set(AvgSalesLast7d, avg7)
	r.set(AvgSalesLast14d, avg14)

	s := x.venues.SeasonalProfile(ctx, in.ProductID, int(in.MarketDate.Month()))
	r.set(IsSeasonal, boolValue(s.IsSeasonal))
	r.set(SeasonalStrength, s.Strength)
	r.set(MonthAvgSales, s.MonthAvg)

	if in.VenueID != nil {
		vf := x.venues.ExtractVenueFeatures(ctx, *in.VenueID, in.ProductID, in.MarketDate)
		r.set(VenueAvgSales, vf.AvgSales)
		r.set(VenueMaxSales, vf.MaxSales)
		r.set(VenueSalesCount, float64(vf.SalesCount))
		r.set(VenueLastSaleDaysAgo, float64(vf.LastSaleDaysAgo))

		embedding := x.venues.GenerateVenueEmbedding(ctx, *in.VenueID)
		for i, name := range VenueEmbeddingNames {
			r.set(name, embedding[i])
		}
	}
	return r
}

func (x *Extractor) weather(r Record, w *models.WeatherData) {
	temp := DefaultTempF
	humidity := DefaultHumidity
	if w != nil && w.TempF != nil {
		temp = *w.TempF
	}
	feelsLike := temp
	if w != nil && w.FeelsLikeF != nil {
		feelsLike = *w.FeelsLikeF
	}
	if w != nil && w.Humidity != nil {
		humidity = *w.Humidity
	}
	r.set(TempF, temp)
	r.set(FeelsLikeF, feelsLike)
	r.set(Humidity, humidity)
	r.set(IsSunny, boolValue(w.IsSunny()))
	r.set(IsRainy, boolValue(w.IsRainy()))
}

// trailingAverages returns the mean quantity per sale over the 7 and 14
// days before marketDate. The market day itself is excluded.
func (x *Extractor) trailingAverages(ctx context.Context, productID uuid.UUID, marketDate time.Time) (avg7, avg14 float64) {
	sales, err := x.history.ProductSales(ctx, models.SalesQuery{
		ProductID: productID,
		From:      marketDate.AddDate(0, 0, -14),
		Before:    marketDate,
	})
	if err != nil {
		x.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Trailing sales lookup failed")
		return 0, 0
	}

	weekStart := marketDate.AddDate(0, 0, -7)
	var sum7, sum14 float64
	var n7, n14 int
	for _, s := range sales {
		if s.Quantity <= 0 || !s.Date.Before(marketDate) {
			continue
		}
		sum14 += s.Quantity
		n14++
		if !s.Date.Before(weekStart) {
			sum7 += s.Quantity
			n7++
		}
	}
	if n7 > 0 {
		avg7 = sum7 / float64(n7)
	}
	if n14 > 0 {
		avg14 = sum14 / float64(n14)
	}
	return avg7, avg14
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
