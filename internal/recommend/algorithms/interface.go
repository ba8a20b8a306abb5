// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package algorithms

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFitted is returned when predicting with a model that has not
	// been fitted.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrDimensionMismatch is returned when input dimensions disagree with
	// each other or with the fitted model.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyTrainingSet is returned when fitting on no samples.
	ErrEmptyTrainingSet = errors.New("empty training set")
)

// Regressor is a single-output regression model.
type Regressor interface {
	Name() string
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) (float64, error)
	IsFitted() bool
}

// BaseModel provides fitted-state bookkeeping shared by models.
type BaseModel struct {
	name     string
	fitted   bool
	fitCount int
	fittedAt time.Time
	mu       sync.RWMutex
}

// NewBaseModel creates a new base model with the given name.
func NewBaseModel(name string) BaseModel {
	return BaseModel{name: name}
}

// Name returns the model identifier.
func (b *BaseModel) Name() string {
	return b.name
}

// IsFitted returns whether the model has been fitted.
func (b *BaseModel) IsFitted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fitted
}

// FittedAt returns when the model was last fitted.
func (b *BaseModel) FittedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fittedAt
}

// markFitted must be called while holding the fit lock.
func (b *BaseModel) markFitted(at time.Time) {
	b.fitted = true
	b.fitCount++
	b.fittedAt = at
}

// acquireFitLock acquires the exclusive fit lock.
func (b *BaseModel) acquireFitLock() {
	b.mu.Lock()
}

// releaseFitLock releases the exclusive fit lock.
func (b *BaseModel) releaseFitLock() {
	b.mu.Unlock()
}

// acquirePredictLock acquires the shared prediction lock.
func (b *BaseModel) acquirePredictLock() {
	b.mu.RLock()
}

// releasePredictLock releases the shared prediction lock.
func (b *BaseModel) releasePredictLock() {
	b.mu.RUnlock()
}

// checkMatrix validates that X is non-empty, rectangular and matches y.
func checkMatrix(X [][]float64, y []float64) (rows, cols int, err error) {
	if len(X) == 0 {
		return 0, 0, ErrEmptyTrainingSet
	}
	cols = len(X[0])
	if cols == 0 {
		return 0, 0, ErrEmptyTrainingSet
	}
	for _, row := range X {
		if len(row) != cols {
			return 0, 0, ErrDimensionMismatch
		}
	}
	if y != nil && len(y) != len(X) {
		return 0, 0, ErrDimensionMismatch
	}
	return len(X), cols, nil
}
