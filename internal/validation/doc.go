// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package validation validates request structs with go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in error messages
// use the struct's json tag when present.
//
// Example usage:
//
//	type Request struct {
//	    VendorID   uuid.UUID `json:"vendor_id" validate:"required"`
//	    MarketDate time.Time `json:"market_date" validate:"required"`
//	    Limit      int       `json:"limit" validate:"min=0,max=500"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    return nil, err // errors.Is(err, validation.ErrInvalid)
//	}
package validation
