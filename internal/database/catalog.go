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

// InsertProduct stores a catalog product.
func (db *DB) InsertProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO products (id, vendor_id, name, category, price, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.VendorID.String(), p.Name, nullString(p.Category), nullFloat(p.Price), p.IsActive, utc(p.CreatedAt))
	observe("INSERT", "products", start, err)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

const productColumns = `id, vendor_id, name, COALESCE(category, ''), price, is_active, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var (
		p       models.Product
		id, vid string
		price   sql.NullFloat64
	)
	if err := row.Scan(&id, &vid, &p.Name, &p.Category, &price, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse product id: %w", err)
	}
	if p.VendorID, err = uuid.Parse(vid); err != nil {
		return nil, fmt.Errorf("parse vendor id: %w", err)
	}
	p.Price = floatPtr(price)
	return &p, nil
}

// GetProduct returns a product by ID, or ErrNotFound.
func (db *DB) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	p, err := scanProduct(db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id.String()))
	observe("SELECT", "products", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ProductPrice returns the unit price of a product, or nil when the product
// is unknown or has no price.
func (db *DB) ProductPrice(ctx context.Context, id uuid.UUID) (*float64, error) {
	p, err := db.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Price, nil
}

// ListActiveProducts returns up to limit active products for a vendor,
// ordered by name.
func (db *DB) ListActiveProducts(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Product, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE vendor_id = ? AND is_active
		ORDER BY name, id
		LIMIT ?`, vendorID.String(), limit)
	observe("SELECT", "products", start, err)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// InsertVenue stores a market venue.
func (db *DB) InsertVenue(ctx context.Context, v *models.Venue) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO venues (id, vendor_id, name, address, latitude, longitude, typical_attendance, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID.String(), v.VendorID.String(), v.Name, nullString(v.Address),
		nullFloat(v.Latitude), nullFloat(v.Longitude), nullInt(v.TypicalAttendance), v.IsActive, utc(v.CreatedAt))
	observe("INSERT", "venues", start, err)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

// GetVenue returns a venue by ID, or ErrNotFound.
func (db *DB) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var (
		v          models.Venue
		vid        string
		lat, lon   sql.NullFloat64
		attendance sql.NullInt64
	)
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT vendor_id, name, COALESCE(address, ''), latitude, longitude, typical_attendance, is_active, created_at
		FROM venues WHERE id = ?`, id.String()).
		Scan(&vid, &v.Name, &v.Address, &lat, &lon, &attendance, &v.IsActive, &v.CreatedAt)
	observe("SELECT", "venues", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	v.ID = id
	if v.VendorID, err = uuid.Parse(vid); err != nil {
		return nil, fmt.Errorf("parse vendor id: %w", err)
	}
	v.Latitude = floatPtr(lat)
	v.Longitude = floatPtr(lon)
	v.TypicalAttendance = intPtr(attendance)
	return &v, nil
}
