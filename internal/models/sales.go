// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// SalesRecord is one market-day sale for a vendor. A record carries one or
// more line items, one per product sold.
type SalesRecord struct {
	ID               uuid.UUID  `json:"id"`
	VendorID         uuid.UUID  `json:"vendor_id"`
	Date             time.Time  `json:"sale_date"`
	VenueID          *uuid.UUID `json:"venue_id,omitempty"`
	LineItems        []LineItem `json:"line_items"`
	TotalAmount      *float64   `json:"total_amount,omitempty"`
	WeatherTempF     *float64   `json:"weather_temp_f,omitempty"`
	WeatherCondition *string    `json:"weather_condition,omitempty"`
}

// LineItem is a single product line within a sale.
type LineItem struct {
	ProductID string   `json:"product_id"`
	Quantity  float64  `json:"quantity"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

// lineItemWire mirrors LineItem with loosely typed numeric fields.
type lineItemWire struct {
	ProductID any `json:"product_id"`
	Quantity  any `json:"quantity"`
	UnitPrice any `json:"unit_price"`
	Price     any `json:"price"`
}

// UnmarshalJSON accepts quantities and prices as numbers or numeric strings.
// Unparseable quantities decode to 0, which every consumer treats as invalid.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var w lineItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	li.ProductID = cast.ToString(w.ProductID)
	li.Quantity = cast.ToFloat64(w.Quantity)
	li.UnitPrice = nil

	price := w.UnitPrice
	if price == nil {
		price = w.Price
	}
	if price != nil {
		if p, err := cast.ToFloat64E(price); err == nil {
			li.UnitPrice = &p
		}
	}
	return nil
}

// ParseLineItems decodes the JSON line item column of a sales row.
func ParseLineItems(raw string) ([]LineItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// QuantityFor returns the summed quantity for productID across the record's
// line items, and whether the product appears at all.
func (s *SalesRecord) QuantityFor(productID string) (float64, bool) {
	var total float64
	found := false
	for _, li := range s.LineItems {
		if li.ProductID == productID {
			total += li.Quantity
			found = true
		}
	}
	return total, found
}

// ProductSale is a flattened (sale, line item) row for one product. The
// weather fields are the conditions recorded on the sale itself.
type ProductSale struct {
	Date             time.Time
	VenueID          *uuid.UUID
	Quantity         float64
	WeatherTempF     *float64
	WeatherCondition *string
}

// Weather returns the sale's recorded weather, or nil when none was recorded.
func (s ProductSale) Weather() *WeatherData {
	if s.WeatherTempF == nil && s.WeatherCondition == nil {
		return nil
	}
	w := &WeatherData{TempF: s.WeatherTempF}
	if s.WeatherCondition != nil {
		w.Condition = *s.WeatherCondition
	}
	return w
}

// SalesQuery selects product-level sales. A zero From means unbounded;
// Before is exclusive and a zero Before means unbounded.
type SalesQuery struct {
	ProductID uuid.UUID
	VenueID   *uuid.UUID
	From      time.Time
	Before    time.Time
}

// VenueSummary holds lifetime sales totals for a venue.
type VenueSummary struct {
	TotalQuantity float64
	FirstSale     *time.Time
}
