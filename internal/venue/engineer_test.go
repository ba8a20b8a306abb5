// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package venue

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/models"
)

type fakeSource struct {
	sales      []models.ProductSale
	venues     map[uuid.UUID]*models.Venue
	summary    models.VenueSummary
	salesErr   error
	summaryErr error
}

func (f *fakeSource) ProductSales(_ context.Context, q models.SalesQuery) ([]models.ProductSale, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	var out []models.ProductSale
	for _, s := range f.sales {
		if q.VenueID != nil && (s.VenueID == nil || *s.VenueID != *q.VenueID) {
			continue
		}
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

func (f *fakeSource) GetVenue(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return v, nil
}

func (f *fakeSource) VenueSalesSummary(context.Context, uuid.UUID) (models.VenueSummary, error) {
	return f.summary, f.summaryErr
}

func testConfig() config.VenueConfig {
	return config.VenueConfig{
		LookbackDays:          365,
		StalenessDays:         180,
		MinSamples:            3,
		HighConfidenceSamples: 20,
		SeasonalZThreshold:    1.5,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(venueID uuid.UUID, at time.Time, qty float64) models.ProductSale {
	return models.ProductSale{Date: at, VenueID: &venueID, Quantity: qty}
}

func TestExtractVenueFeatures(t *testing.T) {
	venueID := uuid.New()
	otherVenue := uuid.New()
	market := date(2025, 6, 15)

	tests := []struct {
		name  string
		sales []models.ProductSale
		want  Features
	}{
		{
			name: "cold venue",
			want: Features{LastSaleDaysAgo: NoSaleDaysAgo},
		},
		{
			name: "aggregates prior sales",
			sales: []models.ProductSale{
				sale(venueID, date(2025, 5, 1), 8),
				sale(venueID, date(2025, 5, 15), 12),
				sale(otherVenue, date(2025, 6, 1), 50),
			},
			want: Features{AvgSales: 10, MaxSales: 12, SalesCount: 2, LastSaleDaysAgo: 31},
		},
		{
			name: "market day and later sales excluded",
			sales: []models.ProductSale{
				sale(venueID, date(2025, 6, 14), 4),
				sale(venueID, market, 100),
				sale(venueID, date(2025, 6, 20), 100),
			},
			want: Features{AvgSales: 4, MaxSales: 4, SalesCount: 1, LastSaleDaysAgo: 1},
		},
		{
			name: "zero quantities ignored",
			sales: []models.ProductSale{
				sale(venueID, date(2025, 6, 1), 0),
			},
			want: Features{LastSaleDaysAgo: NoSaleDaysAgo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngineer(&fakeSource{sales: tt.sales}, testConfig(), zerolog.Nop())
			got := e.ExtractVenueFeatures(context.Background(), venueID, uuid.New(), market)
			if got != tt.want {
				t.Errorf("ExtractVenueFeatures() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractVenueFeatures_SourceError(t *testing.T) {
	e := NewEngineer(&fakeSource{salesErr: errors.New("db down")}, testConfig(), zerolog.Nop())
	got := e.ExtractVenueFeatures(context.Background(), uuid.New(), uuid.New(), date(2025, 6, 15))
	if got != coldFeatures {
		t.Errorf("ExtractVenueFeatures() = %+v, want cold block", got)
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		name  string
		count int
		days  int
		want  float64
	}{
		{"no sales", 0, NoSaleDaysAgo, 0.3},
		{"stale beats volume", 25, 181, 0.5},
		{"staleness boundary is fresh", 25, 180, 0.85},
		{"below minimum", 2, 5, 0.4},
		{"at minimum", 3, 5, 0.6},
		{"interpolated", 10, 5, 0.6 + 0.25*7.0/17.0},
		{"saturated", 20, 5, 0.85},
		{"above saturation", 200, 5, 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceFor(tt.count, tt.days); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConfidenceFor(%d, %d) = %v, want %v", tt.count, tt.days, got, tt.want)
			}
		})
	}
}

func TestConfidenceFor_Monotonic(t *testing.T) {
	prev := ConfidenceFor(0, 10)
	for n := 1; n <= 40; n++ {
		got := ConfidenceFor(n, 10)
		if got < prev {
			t.Fatalf("ConfidenceFor(%d) = %v, below ConfidenceFor(%d) = %v", n, got, n-1, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("ConfidenceFor(%d) = %v, outside [0,1]", n, got)
		}
		prev = got
	}
}

func TestCalculateVenueConfidence(t *testing.T) {
	venueID := uuid.New()
	var sales []models.ProductSale
	for i := 0; i < 5; i++ {
		sales = append(sales, sale(venueID, date(2025, 5, 1+i), 10))
	}
	e := NewEngineer(&fakeSource{sales: sales}, testConfig(), zerolog.Nop())

	got := e.CalculateVenueConfidence(context.Background(), venueID, uuid.New(), date(2025, 6, 1))
	want := 0.6 + 0.25*2.0/17.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CalculateVenueConfidence() = %v, want %v", got, want)
	}

	if got := e.CalculateVenueConfidence(context.Background(), uuid.New(), uuid.New(), date(2025, 6, 1)); got != NoHistoryConfidence {
		t.Errorf("CalculateVenueConfidence(unknown venue) = %v, want %v", got, NoHistoryConfidence)
	}
}

func monthlySales(averages map[time.Month]float64) []models.ProductSale {
	var sales []models.ProductSale
	for m, avg := range averages {
		sales = append(sales,
			models.ProductSale{Date: date(2024, m, 5), Quantity: avg - 1},
			models.ProductSale{Date: date(2024, m, 20), Quantity: avg + 1},
		)
	}
	return sales
}

func TestIsSeasonalProduct(t *testing.T) {
	peak := monthlySales(map[time.Month]float64{
		time.January: 10, time.February: 10, time.March: 10,
		time.April: 10, time.May: 10, time.July: 40,
	})
	flat := monthlySales(map[time.Month]float64{time.January: 10, time.February: 10, time.March: 10})
	sparse := monthlySales(map[time.Month]float64{time.January: 10, time.July: 50})

	tests := []struct {
		name  string
		sales []models.ProductSale
		month int
		want  bool
	}{
		{"peak month", peak, 7, true},
		{"ordinary month", peak, 1, false},
		{"month without sales", peak, 12, false},
		{"zero variance", flat, 1, false},
		{"fewer than three months", sparse, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngineer(&fakeSource{sales: tt.sales}, testConfig(), zerolog.Nop())
			if got := e.IsSeasonalProduct(context.Background(), uuid.New(), tt.month); got != tt.want {
				t.Errorf("IsSeasonalProduct(month %d) = %v, want %v", tt.month, got, tt.want)
			}
		})
	}
}

func TestSeasonalZScore(t *testing.T) {
	pattern := map[int]float64{1: 10, 2: 10, 3: 10, 4: 10, 5: 10, 7: 40}
	z, ok := SeasonalZScore(pattern, 7)
	if !ok {
		t.Fatal("SeasonalZScore() ok = false, want true")
	}
	// mean 15, population std sqrt(125)
	if want := 25 / math.Sqrt(125); math.Abs(z-want) > 1e-9 {
		t.Errorf("SeasonalZScore() = %v, want %v", z, want)
	}
}

func TestGenerateVenueEmbedding(t *testing.T) {
	now := date(2025, 6, 15)
	full := uuid.New()
	bare := uuid.New()
	first := now.AddDate(0, 0, -73)
	attendance := 800
	lat, lon := 45.0, -90.0

	src := &fakeSource{
		venues: map[uuid.UUID]*models.Venue{
			full: {ID: full, TypicalAttendance: &attendance, Latitude: &lat, Longitude: &lon},
			bare: {ID: bare},
		},
		summary: models.VenueSummary{TotalQuantity: 2500, FirstSale: &first},
	}
	e := NewEngineer(src, testConfig(), zerolog.Nop())
	e.now = func() time.Time { return now }

	tests := []struct {
		name    string
		venueID uuid.UUID
		summary models.VenueSummary
		want    [EmbeddingSize]float64
	}{
		{"all fields", full, src.summary, [EmbeddingSize]float64{0.8, 0.5, -0.5, 1, 0.2}},
		{"missing fields", bare, models.VenueSummary{TotalQuantity: 250}, [EmbeddingSize]float64{0.5, 0.5, 0.5, 0.25, 0}},
		{"unknown venue", uuid.New(), models.VenueSummary{}, [EmbeddingSize]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src.summary = tt.summary
			got := e.GenerateVenueEmbedding(context.Background(), tt.venueID)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("GenerateVenueEmbedding()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateVenueEmbedding_SummaryError(t *testing.T) {
	id := uuid.New()
	src := &fakeSource{
		venues:     map[uuid.UUID]*models.Venue{id: {ID: id}},
		summaryErr: errors.New("timeout"),
	}
	got := NewEngineer(src, testConfig(), zerolog.Nop()).GenerateVenueEmbedding(context.Background(), id)
	want := [EmbeddingSize]float64{0.5, 0.5, 0.5, 0, 0}
	if got != want {
		t.Errorf("GenerateVenueEmbedding() = %v, want %v", got, want)
	}
}

func TestSeasonalProfile(t *testing.T) {
	sales := monthlySales(map[time.Month]float64{
		time.January: 10, time.February: 10, time.March: 10,
		time.April: 10, time.May: 10, time.July: 40,
	})
	e := NewEngineer(&fakeSource{sales: sales}, testConfig(), zerolog.Nop())

	got := e.SeasonalProfile(context.Background(), uuid.New(), 7)
	if !got.IsSeasonal {
		t.Error("SeasonalProfile(7).IsSeasonal = false, want true")
	}
	if got.MonthAvg != 40 {
		t.Errorf("SeasonalProfile(7).MonthAvg = %v, want 40", got.MonthAvg)
	}
	if want := 25.0 / 16.0; math.Abs(got.Strength-want) > 1e-9 {
		t.Errorf("SeasonalProfile(7).Strength = %v, want %v", got.Strength, want)
	}

	if empty := e.SeasonalProfile(context.Background(), uuid.New(), 12); empty != (Seasonality{}) {
		t.Errorf("SeasonalProfile(12) = %+v, want zero", empty)
	}
}
