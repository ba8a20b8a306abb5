// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package algorithms

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/stallcast/internal/models"
)

// Evaluate computes hold-out regression metrics. MAPE is a percentage over
// the non-zero targets only, and R2 is 0 when the targets are constant.
func Evaluate(actual, predicted []float64) (models.ModelMetrics, error) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return models.ModelMetrics{}, fmt.Errorf("evaluate: %w", ErrDimensionMismatch)
	}

	var absSum, sqSum, pctSum float64
	var pctCount int
	for i, y := range actual {
		diff := y - predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		if y != 0 {
			pctSum += math.Abs(diff / y)
			pctCount++
		}
	}

	n := float64(len(actual))
	m := models.ModelMetrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
	}
	if pctCount > 0 {
		m.MAPE = pctSum / float64(pctCount) * 100
	}

	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, y := range actual {
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot > 0 {
		m.R2 = 1 - sqSum/ssTot
	}
	return m, nil
}

// ChronologicalSplit splits n ordered samples into a leading training part
// and a trailing test part holding testFraction of the samples, at least
// one. Fewer than two samples leave the test part empty.
func ChronologicalSplit(n int, testFraction float64) (trainEnd int) {
	if n < 2 {
		return n
	}
	test := int(math.Round(float64(n) * testFraction))
	test = max(1, min(test, n-1))
	return n - test
}
