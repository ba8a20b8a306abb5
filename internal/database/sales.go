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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/logging"
	"github.com/tomtom215/stallcast/internal/models"
)

// InsertSale stores a sales record.
func (db *DB) InsertSale(ctx context.Context, s *models.SalesRecord) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	items, err := json.Marshal(s.LineItems)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}

	var condition any
	if s.WeatherCondition != nil {
		condition = *s.WeatherCondition
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO sales (id, vendor_id, sale_date, venue_id, line_items, total_amount, weather_temp_f, weather_condition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.VendorID.String(), utc(s.Date), nullUUID(s.VenueID), string(items),
		nullFloat(s.TotalAmount), nullFloat(s.WeatherTempF), condition)
	observe("INSERT", "sales", start, err)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// SalesForVendor returns all sales of a vendor ordered by date.
// Rows whose line items cannot be decoded are logged and skipped.
func (db *DB) SalesForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.SalesRecord, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, sale_date, venue_id, line_items, total_amount, weather_temp_f, weather_condition
		FROM sales
		WHERE vendor_id = ?
		ORDER BY sale_date, id`, vendorID.String())
	observe("SELECT", "sales", start, err)
	if err != nil {
		return nil, fmt.Errorf("query vendor sales: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var records []models.SalesRecord
	for rows.Next() {
		var (
			id        string
			rec       models.SalesRecord
			venueID   sql.NullString
			items     string
			total     sql.NullFloat64
			temp      sql.NullFloat64
			condition sql.NullString
		)
		if err := rows.Scan(&id, &rec.Date, &venueID, &items, &total, &temp, &condition); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		rec.VendorID = vendorID
		rec.VenueID = uuidPtr(venueID)
		rec.TotalAmount = floatPtr(total)
		rec.WeatherTempF = floatPtr(temp)
		if condition.Valid {
			c := condition.String
			rec.WeatherCondition = &c
		}
		if rec.LineItems, err = models.ParseLineItems(items); err != nil {
			logging.Warn().Err(err).Str("sale_id", id).Msg("Skipping sale with malformed line items")
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return records, nil
}

// ProductSales flattens sales rows into one entry per sale containing the
// product, ordered by date. Quantities of repeated line items are summed.
func (db *DB) ProductSales(ctx context.Context, q models.SalesQuery) ([]models.ProductSale, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	conds := []string{"contains(line_items, ?)"}
	args := []any{q.ProductID.String()}
	if q.VenueID != nil {
		conds = append(conds, "venue_id = ?")
		args = append(args, q.VenueID.String())
	}
	if !q.From.IsZero() {
		conds = append(conds, "sale_date >= ?")
		args = append(args, utc(q.From))
	}
	if !q.Before.IsZero() {
		conds = append(conds, "sale_date < ?")
		args = append(args, utc(q.Before))
	}

	query := `SELECT id, sale_date, venue_id, line_items, weather_temp_f, weather_condition FROM sales WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY sale_date, id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "sales", start, err)
	if err != nil {
		return nil, fmt.Errorf("query product sales: %w", err)
	}
	defer closeWithLog(rows, "rows")

	productID := q.ProductID.String()
	var sales []models.ProductSale
	for rows.Next() {
		var (
			id        string
			date      time.Time
			venueID   sql.NullString
			raw       string
			temp      sql.NullFloat64
			condition sql.NullString
		)
		if err := rows.Scan(&id, &date, &venueID, &raw, &temp, &condition); err != nil {
			return nil, fmt.Errorf("scan product sale: %w", err)
		}
		items, err := models.ParseLineItems(raw)
		if err != nil {
			logging.Warn().Err(err).Str("sale_id", id).Msg("Skipping sale with malformed line items")
			continue
		}
		rec := models.SalesRecord{LineItems: items}
		qty, ok := rec.QuantityFor(productID)
		if !ok {
			continue
		}
		sale := models.ProductSale{
			Date:         date,
			VenueID:      uuidPtr(venueID),
			Quantity:     qty,
			WeatherTempF: floatPtr(temp),
		}
		if condition.Valid {
			c := condition.String
			sale.WeatherCondition = &c
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product sales: %w", err)
	}
	return sales, nil
}

// VenueSalesSummary returns the lifetime quantity sold at a venue across all
// products, and the date of the first sale.
func (db *DB) VenueSalesSummary(ctx context.Context, venueID uuid.UUID) (models.VenueSummary, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT sale_date, line_items FROM sales WHERE venue_id = ? ORDER BY sale_date`, venueID.String())
	observe("SELECT", "sales", start, err)
	if err != nil {
		return models.VenueSummary{}, fmt.Errorf("query venue sales: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var summary models.VenueSummary
	for rows.Next() {
		var (
			date time.Time
			raw  string
		)
		if err := rows.Scan(&date, &raw); err != nil {
			return models.VenueSummary{}, fmt.Errorf("scan venue sale: %w", err)
		}
		if summary.FirstSale == nil {
			d := date
			summary.FirstSale = &d
		}
		items, err := models.ParseLineItems(raw)
		if err != nil {
			continue
		}
		for _, li := range items {
			if li.Quantity > 0 {
				summary.TotalQuantity += li.Quantity
			}
		}
	}
	if err := rows.Err(); err != nil {
		return models.VenueSummary{}, fmt.Errorf("iterate venue sales: %w", err)
	}
	return summary, nil
}
