// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package features

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/venue"
)

type fakeHistory struct {
	sales []models.ProductSale
	err   error
}

func (f *fakeHistory) ProductSales(_ context.Context, q models.SalesQuery) ([]models.ProductSale, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ProductSale
	for _, s := range f.sales {
		if !q.From.IsZero() && s.Date.Before(q.From) {
			continue
		}
		if !q.Before.IsZero() && !s.Date.Before(q.Before) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeVenues struct {
	features    venue.Features
	embedding   [venue.EmbeddingSize]float64
	seasonality venue.Seasonality
}

func (f *fakeVenues) ExtractVenueFeatures(context.Context, uuid.UUID, uuid.UUID, time.Time) venue.Features {
	return f.features
}

func (f *fakeVenues) GenerateVenueEmbedding(context.Context, uuid.UUID) [venue.EmbeddingSize]float64 {
	return f.embedding
}

func (f *fakeVenues) SeasonalProfile(context.Context, uuid.UUID, int) venue.Seasonality {
	return f.seasonality
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertFeature(t *testing.T, r Record, name string, want float64) {
	t.Helper()
	got, ok := r.Get(name)
	if !ok {
		t.Errorf("feature %s missing", name)
		return
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestExtract_Defaults(t *testing.T) {
	x := NewExtractor(&fakeHistory{}, &fakeVenues{}, zerolog.Nop())
	r := x.Extract(context.Background(), Input{ProductID: uuid.New(), MarketDate: date(2025, 6, 15)})

	assertFeature(t, r, DayOfWeek, 6)
	assertFeature(t, r, Month, 6)
	assertFeature(t, r, DayOfMonth, 15)
	assertFeature(t, r, TempF, 70)
	assertFeature(t, r, FeelsLikeF, 70)
	assertFeature(t, r, Humidity, 50)
	assertFeature(t, r, IsSunny, 0)
	assertFeature(t, r, IsRainy, 0)
	assertFeature(t, r, IsSpecialEvent, 0)
	assertFeature(t, r, ExpectedAttendance, 0)
	assertFeature(t, r, AvgSalesLast7d, 0)
	assertFeature(t, r, AvgSalesLast14d, 0)
	assertFeature(t, r, VenueAvgSales, 0)

	if r.HasVenue() {
		t.Error("HasVenue() = true, want false")
	}
	m := r.Map()
	if _, ok := m[VenueEmbeddingNames[0]]; ok {
		t.Errorf("Map() contains %s without a venue", VenueEmbeddingNames[0])
	}
	if len(m) != len(BaseNames) {
		t.Errorf("len(Map()) = %d, want %d", len(m), len(BaseNames))
	}
}

func TestExtract_WeatherAndEvent(t *testing.T) {
	x := NewExtractor(&fakeHistory{}, &fakeVenues{}, zerolog.Nop())

	tests := []struct {
		name     string
		weather  *models.WeatherData
		event    *models.EventData
		features map[string]float64
	}{
		{
			name:     "feels like follows temperature",
			weather:  &models.WeatherData{TempF: ptr(85.0), Condition: "Clear skies"},
			features: map[string]float64{TempF: 85, FeelsLikeF: 85, Humidity: 50, IsSunny: 1, IsRainy: 0},
		},
		{
			name:     "explicit values",
			weather:  &models.WeatherData{TempF: ptr(40.0), FeelsLikeF: ptr(33.0), Humidity: ptr(90.0), Condition: "Thunderstorm"},
			features: map[string]float64{TempF: 40, FeelsLikeF: 33, Humidity: 90, IsSunny: 0, IsRainy: 1},
		},
		{
			name:     "snow counts as rainy",
			weather:  &models.WeatherData{Condition: "light snow"},
			features: map[string]float64{IsRainy: 1},
		},
		{
			name:     "special event",
			event:    &models.EventData{IsSpecial: true, ExpectedAttendance: ptr(1200)},
			features: map[string]float64{IsSpecialEvent: 1, ExpectedAttendance: 1200},
		},
		{
			name:     "event without attendance",
			event:    &models.EventData{},
			features: map[string]float64{IsSpecialEvent: 0, ExpectedAttendance: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := x.Extract(context.Background(), Input{
				ProductID:  uuid.New(),
				MarketDate: date(2025, 6, 14),
				Weather:    tt.weather,
				Event:      tt.event,
			})
			for name, want := range tt.features {
				assertFeature(t, r, name, want)
			}
		})
	}
}

func TestExtract_TrailingAveragesExcludeMarketDay(t *testing.T) {
	market := date(2025, 6, 15)
	history := &fakeHistory{sales: []models.ProductSale{
		{Date: date(2025, 6, 2), Quantity: 20},
		{Date: date(2025, 6, 10), Quantity: 6},
		{Date: date(2025, 6, 14), Quantity: 10},
		{Date: market, Quantity: 500},
		{Date: date(2025, 6, 16), Quantity: 500},
	}}
	x := NewExtractor(history, &fakeVenues{}, zerolog.Nop())
	r := x.Extract(context.Background(), Input{ProductID: uuid.New(), MarketDate: market})

	assertFeature(t, r, AvgSalesLast7d, 8)
	assertFeature(t, r, AvgSalesLast14d, 12)
}

func TestExtract_HistoryErrorDegradesToZero(t *testing.T) {
	x := NewExtractor(&fakeHistory{err: errors.New("db down")}, &fakeVenues{}, zerolog.Nop())
	r := x.Extract(context.Background(), Input{ProductID: uuid.New(), MarketDate: date(2025, 6, 15)})
	assertFeature(t, r, AvgSalesLast7d, 0)
	assertFeature(t, r, AvgSalesLast14d, 0)
}

func TestExtract_VenueAndSeasonality(t *testing.T) {
	venues := &fakeVenues{
		features:    venue.Features{AvgSales: 10, MaxSales: 12, SalesCount: 2, LastSaleDaysAgo: 31},
		embedding:   [venue.EmbeddingSize]float64{0.8, 0.5, -0.5, 1, 0.2},
		seasonality: venue.Seasonality{IsSeasonal: true, Strength: 1.5625, MonthAvg: 40},
	}
	x := NewExtractor(&fakeHistory{}, venues, zerolog.Nop())
	r := x.Extract(context.Background(), Input{ProductID: uuid.New(), MarketDate: date(2025, 7, 5), VenueID: ptr(uuid.New())})

	assertFeature(t, r, IsSeasonal, 1)
	assertFeature(t, r, SeasonalStrength, 1.5625)
	assertFeature(t, r, MonthAvgSales, 40)
	assertFeature(t, r, VenueSalesCount, 2)
	assertFeature(t, r, VenueLastSaleDaysAgo, 31)
	assertFeature(t, r, VenueEmbeddingNames[4], 0.2)

	vec := r.Vector(Names())
	if len(vec) != len(Names()) {
		t.Fatalf("len(Vector()) = %d, want %d", len(vec), len(Names()))
	}
	if vec[len(vec)-5] != 0.8 {
		t.Errorf("Vector() embedding[0] = %v, want 0.8", vec[len(vec)-5])
	}
}

func TestVector_MissingNamesAreZero(t *testing.T) {
	x := NewExtractor(&fakeHistory{}, &fakeVenues{}, zerolog.Nop())
	r := x.Extract(context.Background(), Input{ProductID: uuid.New(), MarketDate: date(2025, 6, 15)})

	got := r.Vector([]string{DayOfWeek, VenueEmbeddingNames[0], "unknown"})
	want := []float64{6, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vector()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
