// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package algorithms

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultLambda is the L2 penalty used when none is configured.
const DefaultLambda = 1.0

// Ridge is L2-regularized linear regression with an unpenalized intercept.
// The normal equations (XᵀX + λI)w = Xᵀy are solved on centered data by
// Cholesky factorization.
type Ridge struct {
	BaseModel
	lambda    float64
	coef      []float64
	intercept float64
}

// RidgeState is the serializable state of a Ridge model.
type RidgeState struct {
	Lambda    float64
	Coef      []float64
	Intercept float64
}

// NewRidge creates an unfitted Ridge model. A non-positive lambda uses
// DefaultLambda.
func NewRidge(lambda float64) *Ridge {
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	return &Ridge{BaseModel: NewBaseModel("ridge"), lambda: lambda}
}

// Fit estimates coefficients from X and y.
func (r *Ridge) Fit(X [][]float64, y []float64) error {
	rows, cols, err := checkMatrix(X, y)
	if err != nil {
		return fmt.Errorf("fit ridge: %w", err)
	}

	xMean := make([]float64, cols)
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		xMean[j] = stat.Mean(column, nil)
	}
	yMean := stat.Mean(y, nil)

	centered := mat.NewDense(rows, cols, nil)
	for i, row := range X {
		for j, v := range row {
			centered.Set(i, j, v-xMean[j])
		}
	}
	yc := mat.NewVecDense(rows, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	gram := mat.NewSymDense(cols, nil)
	gram.SymOuterK(1, centered.T())
	for j := 0; j < cols; j++ {
		gram.SetSym(j, j, gram.At(j, j)+r.lambda)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return errors.New("fit ridge: normal equations are not positive definite")
	}

	xty := mat.NewVecDense(cols, nil)
	xty.MulVec(centered.T(), yc)

	var w mat.VecDense
	if err := chol.SolveVecTo(&w, xty); err != nil {
		return fmt.Errorf("fit ridge: solve: %w", err)
	}

	coef := make([]float64, cols)
	intercept := yMean
	for j := range coef {
		coef[j] = w.AtVec(j)
		intercept -= coef[j] * xMean[j]
	}
	if !finite(intercept) || !AllFinite(coef) {
		return errors.New("fit ridge: non-finite coefficients")
	}

	r.acquireFitLock()
	defer r.releaseFitLock()
	r.coef = coef
	r.intercept = intercept
	r.markFitted(time.Now())
	return nil
}

// Predict returns the model output for one feature vector.
func (r *Ridge) Predict(x []float64) (float64, error) {
	r.acquirePredictLock()
	defer r.releasePredictLock()

	if !r.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != len(r.coef) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, len(r.coef), len(x))
	}
	return r.intercept + floats.Dot(x, r.coef), nil
}

// Coefficients returns a copy of the fitted weights and intercept.
func (r *Ridge) Coefficients() ([]float64, float64) {
	r.acquirePredictLock()
	defer r.releasePredictLock()
	return append([]float64(nil), r.coef...), r.intercept
}

// State exports the fitted parameters.
func (r *Ridge) State() RidgeState {
	coef, intercept := r.Coefficients()
	return RidgeState{Lambda: r.lambda, Coef: coef, Intercept: intercept}
}

// RestoreRidge rebuilds a fitted Ridge model from state.
func RestoreRidge(state RidgeState) (*Ridge, error) {
	if len(state.Coef) == 0 {
		return nil, fmt.Errorf("restore ridge: %w", ErrEmptyTrainingSet)
	}
	r := NewRidge(state.Lambda)
	r.coef = append([]float64(nil), state.Coef...)
	r.intercept = state.Intercept
	r.markFitted(time.Now())
	return r, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every value is neither NaN nor infinite.
func AllFinite(vs []float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}
