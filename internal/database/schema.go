// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// getTableCreationQueries returns the CREATE TABLE statements in dependency order.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT,
			price DOUBLE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS venues (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			name TEXT NOT NULL,
			address TEXT,
			latitude DOUBLE,
			longitude DOUBLE,
			typical_attendance INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			sale_date TIMESTAMP NOT NULL,
			venue_id TEXT,
			line_items TEXT NOT NULL,
			total_amount DOUBLE,
			weather_temp_f DOUBLE,
			weather_condition TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			venue_id TEXT,
			market_date TIMESTAMP NOT NULL,
			recommended_quantity INTEGER NOT NULL CHECK (recommended_quantity >= 1),
			confidence_score DOUBLE NOT NULL CHECK (confidence_score >= 0 AND confidence_score <= 1),
			predicted_revenue DOUBLE,
			weather_features TEXT,
			event_features TEXT,
			historical_features TEXT,
			model_version TEXT NOT NULL,
			generated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recommendation_feedback (
			id TEXT PRIMARY KEY,
			recommendation_id TEXT NOT NULL,
			vendor_id TEXT NOT NULL,
			actual_quantity_sold INTEGER,
			actual_revenue DOUBLE,
			rating INTEGER,
			comments TEXT,
			quantity_variance DOUBLE,
			variance_percentage DOUBLE,
			was_accurate BOOLEAN,
			was_overstocked BOOLEAN,
			was_understocked BOOLEAN,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS model_versions (
			vendor_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			source TEXT NOT NULL,
			mae DOUBLE NOT NULL,
			rmse DOUBLE NOT NULL,
			r2 DOUBLE NOT NULL,
			mape DOUBLE NOT NULL,
			feature_names TEXT NOT NULL,
			locator TEXT NOT NULL,
			samples INTEGER NOT NULL,
			PRIMARY KEY (vendor_id, version)
		);`,
	}
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
