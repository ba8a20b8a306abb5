// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/models"
)

// accuracySelect counts each recommendation once even if it carries more
// than one feedback row.
const accuracySelect = `
	COUNT(DISTINCT r.id),
	COUNT(DISTINCT f.recommendation_id),
	COUNT(DISTINCT CASE WHEN f.was_accurate THEN r.id END),
	COUNT(DISTINCT CASE WHEN f.was_overstocked THEN r.id END),
	COUNT(DISTINCT CASE WHEN f.was_understocked THEN r.id END)`

func accuracyWhere(filter models.AccuracyFilter) (string, []any) {
	conds := []string{"r.generated_at >= ?"}
	args := []any{utc(filter.Since)}
	if !filter.Until.IsZero() {
		conds = append(conds, "r.generated_at < ?")
		args = append(args, utc(filter.Until))
	}
	if filter.VendorID != nil {
		conds = append(conds, "r.vendor_id = ?")
		args = append(args, filter.VendorID.String())
	}
	if filter.ProductID != nil {
		conds = append(conds, "r.product_id = ?")
		args = append(args, filter.ProductID.String())
	}
	return strings.Join(conds, " AND "), args
}

// AccuracyCounts counts recommendations and their feedback classification.
func (db *DB) AccuracyCounts(ctx context.Context, filter models.AccuracyFilter) (models.AccuracyCounts, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	where, args := accuracyWhere(filter)
	query := `SELECT ` + accuracySelect + `
		FROM recommendations r
		LEFT JOIN recommendation_feedback f ON f.recommendation_id = r.id
		WHERE ` + where

	var c models.AccuracyCounts
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, args...).
		Scan(&c.TotalPredictions, &c.WithFeedback, &c.Accurate, &c.Overstocked, &c.Understocked)
	observe("SELECT", "recommendations", start, err)
	if err != nil {
		return models.AccuracyCounts{}, fmt.Errorf("query accuracy counts: %w", err)
	}
	return c, nil
}

// ProductAccuracyCounts returns AccuracyCounts grouped by product.
func (db *DB) ProductAccuracyCounts(ctx context.Context, filter models.AccuracyFilter) ([]models.ProductAccuracyCounts, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	where, args := accuracyWhere(filter)
	query := `SELECT r.product_id, ` + accuracySelect + `
		FROM recommendations r
		LEFT JOIN recommendation_feedback f ON f.recommendation_id = r.id
		WHERE ` + where + `
		GROUP BY r.product_id
		ORDER BY r.product_id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "recommendations", start, err)
	if err != nil {
		return nil, fmt.Errorf("query product accuracy: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var result []models.ProductAccuracyCounts
	for rows.Next() {
		var (
			pid string
			pc  models.ProductAccuracyCounts
		)
		if err := rows.Scan(&pid, &pc.TotalPredictions, &pc.WithFeedback, &pc.Accurate,
			&pc.Overstocked, &pc.Understocked); err != nil {
			return nil, fmt.Errorf("scan product accuracy: %w", err)
		}
		if pc.ProductID, err = uuid.Parse(pid); err != nil {
			continue
		}
		result = append(result, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product accuracy: %w", err)
	}
	return result, nil
}
