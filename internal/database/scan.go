// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullUUID(p *uuid.UUID) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func uuidPtr(v sql.NullString) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil
	}
	return &id
}

// encodeFeatures serializes a feature snapshot for a TEXT column.
func encodeFeatures(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeFeatures parses a stored feature snapshot. Malformed or missing
// snapshots decode to an empty map.
func decodeFeatures(v sql.NullString) map[string]any {
	m := map[string]any{}
	if !v.Valid || v.String == "" {
		return m
	}
	if err := json.Unmarshal([]byte(v.String), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// utc normalizes t for storage in a TIMESTAMP column.
func utc(t time.Time) time.Time {
	return t.UTC()
}
