// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package features

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/venue"
)

// Memoized returns an Extractor that caches seasonality profiles and venue
// embeddings for its lifetime. Both depend only on the product or venue, so
// a fit that extracts one row per sale loads each of them once. The returned
// Extractor is not safe for concurrent use.
func (x *Extractor) Memoized() *Extractor {
	return &Extractor{
		history: x.history,
		venues:  newMemoVenues(x.venues),
		logger:  x.logger,
	}
}

type seasonKey struct {
	product uuid.UUID
	month   int
}

type memoVenues struct {
	inner      VenueSignals
	seasons    map[seasonKey]venue.Seasonality
	embeddings map[uuid.UUID][venue.EmbeddingSize]float64
}

func newMemoVenues(inner VenueSignals) *memoVenues {
	if m, ok := inner.(*memoVenues); ok {
		inner = m.inner
	}
	return &memoVenues{
		inner:      inner,
		seasons:    make(map[seasonKey]venue.Seasonality),
		embeddings: make(map[uuid.UUID][venue.EmbeddingSize]float64),
	}
}

// ExtractVenueFeatures is windowed on marketDate and is never cached.
func (m *memoVenues) ExtractVenueFeatures(ctx context.Context, venueID, productID uuid.UUID, marketDate time.Time) venue.Features {
	return m.inner.ExtractVenueFeatures(ctx, venueID, productID, marketDate)
}

func (m *memoVenues) GenerateVenueEmbedding(ctx context.Context, venueID uuid.UUID) [venue.EmbeddingSize]float64 {
	if e, ok := m.embeddings[venueID]; ok {
		return e
	}
	e := m.inner.GenerateVenueEmbedding(ctx, venueID)
	m.embeddings[venueID] = e
	return e
}

func (m *memoVenues) SeasonalProfile(ctx context.Context, productID uuid.UUID, month int) venue.Seasonality {
	key := seasonKey{product: productID, month: month}
	if s, ok := m.seasons[key]; ok {
		return s
	}
	s := m.inner.SeasonalProfile(ctx, productID, month)
	m.seasons[key] = s
	return s
}
