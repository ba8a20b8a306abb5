// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package algorithms

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature to zero mean and scales it to unit
// population variance. Constant features are centered but not scaled.
type StandardScaler struct {
	BaseModel
	mean  []float64
	scale []float64
}

// ScalerState is the serializable state of a StandardScaler.
type ScalerState struct {
	Mean  []float64
	Scale []float64
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{BaseModel: NewBaseModel("standard_scaler")}
}

// Fit learns per-column mean and standard deviation.
func (s *StandardScaler) Fit(X [][]float64) error {
	rows, cols, err := checkMatrix(X, nil)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}

	mean := make([]float64, cols)
	scale := make([]float64, cols)
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		m, variance := stat.PopMeanVariance(column, nil)
		std := math.Sqrt(variance)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		mean[j] = m
		scale[j] = std
	}

	s.acquireFitLock()
	defer s.releaseFitLock()
	s.mean = mean
	s.scale = scale
	s.markFitted(time.Now())
	return nil
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	if !s.fitted {
		return nil, ErrNotFitted
	}
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrDimensionMismatch, len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.mean[j]) / s.scale[j]
	}
	return out, nil
}

// TransformAll standardizes every row of X.
func (s *StandardScaler) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// State exports the fitted parameters.
func (s *StandardScaler) State() ScalerState {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	return ScalerState{Mean: append([]float64(nil), s.mean...), Scale: append([]float64(nil), s.scale...)}
}

// RestoreScaler rebuilds a fitted scaler from state.
func RestoreScaler(state ScalerState) (*StandardScaler, error) {
	if len(state.Mean) == 0 || len(state.Mean) != len(state.Scale) {
		return nil, fmt.Errorf("restore scaler: %w", ErrDimensionMismatch)
	}
	s := NewStandardScaler()
	s.mean = append([]float64(nil), state.Mean...)
	s.scale = append([]float64(nil), state.Scale...)
	s.markFitted(time.Now())
	return s, nil
}
