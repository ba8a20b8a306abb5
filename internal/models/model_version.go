// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package models

import "time"

// ModelMetrics are hold-out evaluation metrics of a fitted model.
type ModelMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	MAPE float64 `json:"mape"`
}

// ModelMetadata is the sidecar written next to every persisted vendor model.
// The zero value means no model exists.
type ModelMetadata struct {
	VendorID     string       `json:"vendor_id"`
	Version      int          `json:"version"`
	Source       string       `json:"source"`
	TrainedAt    time.Time    `json:"trained_at"`
	FeatureNames []string     `json:"feature_names"`
	Metrics      ModelMetrics `json:"metrics"`
	Samples      int          `json:"training_samples"`
}

// IsZero reports whether no metadata was found.
func (m ModelMetadata) IsZero() bool {
	return m.VendorID == "" && m.Version == 0
}

// ModelVersion is a row of the versioned model index.
type ModelVersion struct {
	VendorID     string
	Version      int
	CreatedAt    time.Time
	Source       string
	Metrics      ModelMetrics
	FeatureNames []string
	Locator      string
	Samples      int
}
