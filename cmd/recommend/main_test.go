// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package main

import (
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	const vendor = "5f0c7a8e-3b1d-4c2a-9f6e-1a2b3c4d5e6f"
	const product = "9a1e2b3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, o options)
	}{
		{
			name: "batch with no context",
			args: []string{"-vendor", vendor, "-date", "2025-06-14"},
			check: func(t *testing.T, o options) {
				if !o.marketDate.Equal(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("marketDate = %v, want 2025-06-14", o.marketDate)
				}
				if o.productID != nil || o.weather != nil || o.event != nil {
					t.Errorf("options = %+v, want no product, weather or event", o)
				}
			},
		},
		{
			name: "single product with weather",
			args: []string{"-vendor", vendor, "-product", product, "-date", "2025-06-14", "-temp", "0", "-condition", "rain"},
			check: func(t *testing.T, o options) {
				if o.productID == nil || o.productID.String() != product {
					t.Errorf("productID = %v, want %s", o.productID, product)
				}
				if o.weather == nil || o.weather.TempF == nil || *o.weather.TempF != 0 || o.weather.Condition != "rain" {
					t.Errorf("weather = %+v, want explicit 0F rain", o.weather)
				}
				if o.event != nil {
					t.Errorf("event = %+v, want nil", o.event)
				}
			},
		},
		{
			name: "train needs no date",
			args: []string{"-vendor", vendor, "-train"},
			check: func(t *testing.T, o options) {
				if !o.train {
					t.Error("train = false, want true")
				}
			},
		},
		{name: "missing vendor", args: []string{"-date", "2025-06-14"}, wantErr: true},
		{name: "bad date", args: []string{"-vendor", vendor, "-date", "14/06/2025"}, wantErr: true},
		{name: "bad venue", args: []string{"-vendor", vendor, "-date", "2025-06-14", "-venue", "hall-b"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}
