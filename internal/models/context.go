// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import "strings"

// WeatherData is the pre-parsed weather forecast for a market day.
// Nil pointer fields mean the adapter did not report the value.
type WeatherData struct {
	TempF      *float64 `json:"temp_f,omitempty"`
	FeelsLikeF *float64 `json:"feels_like_f,omitempty"`
	Humidity   *float64 `json:"humidity,omitempty"`
	Condition  string   `json:"condition,omitempty"`
}

// IsSunny reports whether the condition string describes fair weather.
func (w *WeatherData) IsSunny() bool {
	if w == nil {
		return false
	}
	c := strings.ToLower(w.Condition)
	return strings.Contains(c, "sun") || strings.Contains(c, "clear")
}

// IsRainy reports whether the condition string describes wet weather.
// Snow and storms count as rain for stocking purposes.
func (w *WeatherData) IsRainy() bool {
	if w == nil {
		return false
	}
	c := strings.ToLower(w.Condition)
	return strings.Contains(c, "rain") || strings.Contains(c, "storm") || strings.Contains(c, "snow")
}

// Map returns the documented key set for storage in feature snapshots.
func (w *WeatherData) Map() map[string]any {
	if w == nil {
		return map[string]any{}
	}
	m := map[string]any{"condition": w.Condition}
	if w.TempF != nil {
		m["temp_f"] = *w.TempF
	}
	if w.FeelsLikeF != nil {
		m["feels_like_f"] = *w.FeelsLikeF
	}
	if w.Humidity != nil {
		m["humidity"] = *w.Humidity
	}
	return m
}

// EventData is the pre-parsed description of a local event on a market day.
type EventData struct {
	ExpectedAttendance *int   `json:"expected_attendance,omitempty"`
	IsSpecial          bool   `json:"is_special"`
	Name               string `json:"name,omitempty"`
}

// Attendance returns the expected attendance, or 0 when unknown.
func (e *EventData) Attendance() int {
	if e == nil || e.ExpectedAttendance == nil {
		return 0
	}
	return *e.ExpectedAttendance
}

// Map returns the documented key set for storage in feature snapshots.
func (e *EventData) Map() map[string]any {
	if e == nil {
		return map[string]any{}
	}
	m := map[string]any{"is_special": e.IsSpecial}
	if e.ExpectedAttendance != nil {
		m["expected_attendance"] = *e.ExpectedAttendance
	}
	if e.Name != "" {
		m["name"] = e.Name
	}
	return m
}
