// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item in a vendor's catalog.
type Product struct {
	ID        uuid.UUID `json:"id"`
	VendorID  uuid.UUID `json:"vendor_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Venue is a physical market location a vendor sells at repeatedly.
type Venue struct {
	ID                uuid.UUID `json:"id"`
	VendorID          uuid.UUID `json:"vendor_id"`
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	TypicalAttendance *int      `json:"typical_attendance,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
