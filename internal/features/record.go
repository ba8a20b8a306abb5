// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package features

// Record is one flat feature record produced by Extractor.Extract.
type Record struct {
	values   map[string]float64
	hasVenue bool
}

func newRecord(hasVenue bool) Record {
	r := Record{values: make(map[string]float64, len(BaseNames)+len(VenueEmbeddingNames)), hasVenue: hasVenue}
	for _, name := range BaseNames {
		r.values[name] = 0
	}
	return r
}

func (r Record) set(name string, v float64) {
	r.values[name] = v
}

// Get returns a feature value and whether the record carries it.
func (r Record) Get(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// HasVenue reports whether the record was extracted for a venue.
func (r Record) HasVenue() bool {
	return r.hasVenue
}

// Vector returns the values of names in order. Features the record does not
// carry are 0.
func (r Record) Vector(names []string) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = r.values[name]
	}
	return out
}

// Map returns the flat snapshot form. The venue embedding appears only for
// records extracted with a venue.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}
