// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package features

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/venue"
)

type countingVenues struct {
	fakeVenues
	seasonCalls    int
	embeddingCalls int
	featureCalls   int
}

func (c *countingVenues) ExtractVenueFeatures(ctx context.Context, venueID, productID uuid.UUID, d time.Time) venue.Features {
	c.featureCalls++
	return c.fakeVenues.ExtractVenueFeatures(ctx, venueID, productID, d)
}

func (c *countingVenues) GenerateVenueEmbedding(ctx context.Context, venueID uuid.UUID) [venue.EmbeddingSize]float64 {
	c.embeddingCalls++
	return c.fakeVenues.GenerateVenueEmbedding(ctx, venueID)
}

func (c *countingVenues) SeasonalProfile(ctx context.Context, productID uuid.UUID, month int) venue.Seasonality {
	c.seasonCalls++
	return c.fakeVenues.SeasonalProfile(ctx, productID, month)
}

func TestMemoized_CachesPerProductSignals(t *testing.T) {
	venues := &countingVenues{fakeVenues: fakeVenues{
		embedding:   [venue.EmbeddingSize]float64{0.8, 0, 0, 0, 0},
		seasonality: venue.Seasonality{MonthAvg: 12},
	}}
	x := NewExtractor(&fakeHistory{}, venues, zerolog.Nop()).Memoized()

	product := uuid.New()
	venueID := uuid.New()
	start := date(2025, 5, 20)
	for i := 0; i < 20; i++ {
		r := x.Extract(context.Background(), Input{ProductID: product, MarketDate: start.AddDate(0, 0, i), VenueID: &venueID})
		assertFeature(t, r, MonthAvgSales, 12)
		assertFeature(t, r, VenueEmbeddingNames[0], 0.8)
	}

	if venues.seasonCalls != 2 {
		t.Errorf("SeasonalProfile calls = %d, want 2 (May and June)", venues.seasonCalls)
	}
	if venues.embeddingCalls != 1 {
		t.Errorf("GenerateVenueEmbedding calls = %d, want 1", venues.embeddingCalls)
	}
	if venues.featureCalls != 20 {
		t.Errorf("ExtractVenueFeatures calls = %d, want 20", venues.featureCalls)
	}
}

func TestMemoized_FreshCachePerCall(t *testing.T) {
	venues := &countingVenues{}
	base := NewExtractor(&fakeHistory{}, venues, zerolog.Nop())
	product := uuid.New()
	in := Input{ProductID: product, MarketDate: date(2025, 7, 5)}

	base.Memoized().Extract(context.Background(), in)
	base.Memoized().Memoized().Extract(context.Background(), in)
	base.Extract(context.Background(), in)

	if venues.seasonCalls != 3 {
		t.Errorf("SeasonalProfile calls = %d, want 3", venues.seasonCalls)
	}
}
