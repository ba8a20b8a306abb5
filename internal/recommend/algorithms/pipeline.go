// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package algorithms

import (
	"fmt"
	"math"
)

// Pipeline standardizes inputs and feeds them to a Ridge regressor.
type Pipeline struct {
	Scaler *StandardScaler
	Model  *Ridge
}

// PipelineState is the serializable state of a fitted Pipeline.
type PipelineState struct {
	Scaler ScalerState
	Ridge  RidgeState
}

// NewPipeline creates an unfitted pipeline.
func NewPipeline(lambda float64) *Pipeline {
	return &Pipeline{Scaler: NewStandardScaler(), Model: NewRidge(lambda)}
}

// Fit fits the scaler and then the regressor on the scaled samples.
func (p *Pipeline) Fit(X [][]float64, y []float64) error {
	if err := p.Scaler.Fit(X); err != nil {
		return err
	}
	scaled, err := p.Scaler.TransformAll(X)
	if err != nil {
		return err
	}
	return p.Model.Fit(scaled, y)
}

// IsFitted reports whether both stages are fitted.
func (p *Pipeline) IsFitted() bool {
	return p.Scaler.IsFitted() && p.Model.IsFitted()
}

// Predict scales x and returns the regressor output. A non-finite output
// is an error.
func (p *Pipeline) Predict(x []float64) (float64, error) {
	if !p.IsFitted() {
		return 0, ErrNotFitted
	}
	scaled, err := p.Scaler.Transform(x)
	if err != nil {
		return 0, err
	}
	out, err := p.Model.Predict(scaled)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("prediction is not finite: %v", out)
	}
	return out, nil
}

// PredictAll predicts every row of X.
func (p *Pipeline) PredictAll(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		v, err := p.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// State exports the fitted pipeline.
func (p *Pipeline) State() (PipelineState, error) {
	if !p.IsFitted() {
		return PipelineState{}, ErrNotFitted
	}
	return PipelineState{Scaler: p.Scaler.State(), Ridge: p.Model.State()}, nil
}

// RestorePipeline rebuilds a fitted pipeline from state.
func RestorePipeline(state PipelineState) (*Pipeline, error) {
	scaler, err := RestoreScaler(state.Scaler)
	if err != nil {
		return nil, err
	}
	model, err := RestoreRidge(state.Ridge)
	if err != nil {
		return nil, err
	}
	if len(state.Scaler.Mean) != len(state.Ridge.Coef) {
		return nil, fmt.Errorf("restore pipeline: %w", ErrDimensionMismatch)
	}
	return &Pipeline{Scaler: scaler, Model: model}, nil
}
