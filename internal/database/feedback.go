// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/models"
)

// InsertFeedback stores vendor feedback. Derived accuracy fields are taken
// as given; callers classify with Feedback.Classify first.
func (db *DB) InsertFeedback(ctx context.Context, f *models.Feedback) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO recommendation_feedback (
			id, recommendation_id, vendor_id, actual_quantity_sold, actual_revenue, rating, comments,
			quantity_variance, variance_percentage, was_accurate, was_overstocked, was_understocked, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.RecommendationID.String(), f.VendorID.String(), nullInt(f.ActualQuantitySold),
		nullFloat(f.ActualRevenue), nullInt(f.Rating), nullString(f.Comments), nullFloat(f.QuantityVariance),
		nullFloat(f.VariancePercentage), nullBool(f.WasAccurate), nullBool(f.WasOverstocked),
		nullBool(f.WasUnderstocked), utc(f.CreatedAt))
	observe("INSERT", "recommendation_feedback", start, err)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// FeedbackExamples joins recommendations with their feedback for training.
// The window applies to the recommendation's market date. Results are
// ordered by market date.
func (db *DB) FeedbackExamples(ctx context.Context, q models.FeedbackQuery) ([]models.FeedbackExample, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	conds := []string{"r.market_date >= ?"}
	args := []any{utc(q.Since)}
	if q.VendorID != nil {
		conds = append(conds, "r.vendor_id = ?")
		args = append(args, q.VendorID.String())
	}
	if q.MinRating > 0 {
		conds = append(conds, "COALESCE(f.rating, ?) >= ?")
		args = append(args, models.NeutralRating, q.MinRating)
	}

	query := `
		SELECT r.id, r.vendor_id, r.product_id, r.market_date, r.recommended_quantity,
			r.weather_features, r.event_features, r.historical_features,
			f.actual_quantity_sold, f.actual_revenue, f.variance_percentage, f.was_accurate, f.rating
		FROM recommendations r
		JOIN recommendation_feedback f ON f.recommendation_id = r.id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY r.market_date, r.id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "recommendation_feedback", start, err)
	if err != nil {
		return nil, fmt.Errorf("query feedback examples: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var examples []models.FeedbackExample
	for rows.Next() {
		var (
			ex                         models.FeedbackExample
			recID, vendorID, productID string
			weather, event, historical sql.NullString
			actual, rating             sql.NullInt64
			revenue, variancePct       sql.NullFloat64
			accurate                   sql.NullBool
		)
		if err := rows.Scan(&recID, &vendorID, &productID, &ex.MarketDate, &ex.RecommendedQuantity,
			&weather, &event, &historical, &actual, &revenue, &variancePct, &accurate, &rating); err != nil {
			return nil, fmt.Errorf("scan feedback example: %w", err)
		}
		ex.RecommendationID, _ = uuid.Parse(recID)
		ex.VendorID, _ = uuid.Parse(vendorID)
		ex.ProductID, _ = uuid.Parse(productID)
		ex.DayOfWeek = models.Weekday(ex.MarketDate)
		ex.WeatherFeatures = decodeFeatures(weather)
		ex.EventFeatures = decodeFeatures(event)
		ex.HistoricalFeatures = decodeFeatures(historical)
		ex.ActualQuantitySold = intPtr(actual)
		ex.ActualRevenue = floatPtr(revenue)
		ex.VariancePercentage = floatPtr(variancePct)
		ex.WasAccurate = boolPtr(accurate)
		ex.Rating = intPtr(rating)
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback examples: %w", err)
	}
	return examples, nil
}

// VendorsWithFeedback returns the distinct vendors that have any feedback.
func (db *DB) VendorsWithFeedback(ctx context.Context) ([]uuid.UUID, error) {
	return db.distinctVendors(ctx, `SELECT DISTINCT vendor_id FROM recommendation_feedback ORDER BY vendor_id`)
}

// VendorsWithRecommendations returns the distinct vendors with recommendations
// generated at or after since.
func (db *DB) VendorsWithRecommendations(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	return db.distinctVendors(ctx,
		`SELECT DISTINCT vendor_id FROM recommendations WHERE generated_at >= ? ORDER BY vendor_id`, utc(since))
}

func (db *DB) distinctVendors(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var vendors []uuid.UUID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		vendors = append(vendors, parsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}
	return vendors, nil
}
