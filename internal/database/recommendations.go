// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/models"
)

// InsertRecommendation stores a generated recommendation.
func (db *DB) InsertRecommendation(ctx context.Context, r *models.Recommendation) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	weather, err := encodeFeatures(r.WeatherFeatures)
	if err != nil {
		return fmt.Errorf("encode weather features: %w", err)
	}
	event, err := encodeFeatures(r.EventFeatures)
	if err != nil {
		return fmt.Errorf("encode event features: %w", err)
	}
	historical, err := encodeFeatures(r.HistoricalFeatures)
	if err != nil {
		return fmt.Errorf("encode historical features: %w", err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO recommendations (
			id, vendor_id, product_id, venue_id, market_date, recommended_quantity,
			confidence_score, predicted_revenue, weather_features, event_features,
			historical_features, model_version, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.VendorID.String(), r.ProductID.String(), nullUUID(r.VenueID), utc(r.MarketDate),
		r.RecommendedQuantity, r.ConfidenceScore, nullFloat(r.PredictedRevenue), weather, event,
		historical, r.ModelVersion, utc(r.GeneratedAt))
	observe("INSERT", "recommendations", start, err)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

// GetRecommendation returns a recommendation by ID, or ErrNotFound.
func (db *DB) GetRecommendation(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var (
		r                          models.Recommendation
		vendorID, productID        string
		venueID                    sql.NullString
		revenue                    sql.NullFloat64
		weather, event, historical sql.NullString
	)
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT vendor_id, product_id, venue_id, market_date, recommended_quantity, confidence_score,
			predicted_revenue, weather_features, event_features, historical_features, model_version, generated_at
		FROM recommendations WHERE id = ?`, id.String()).
		Scan(&vendorID, &productID, &venueID, &r.MarketDate, &r.RecommendedQuantity, &r.ConfidenceScore,
			&revenue, &weather, &event, &historical, &r.ModelVersion, &r.GeneratedAt)
	observe("SELECT", "recommendations", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	r.ID = id
	r.VendorID, _ = uuid.Parse(vendorID)
	r.ProductID, _ = uuid.Parse(productID)
	r.VenueID = uuidPtr(venueID)
	r.PredictedRevenue = floatPtr(revenue)
	r.WeatherFeatures = decodeFeatures(weather)
	r.EventFeatures = decodeFeatures(event)
	r.HistoricalFeatures = decodeFeatures(historical)
	return &r, nil
}
