// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"time"

	"github.com/tomtom215/stallcast/internal/models"
)

// Feature schemas of the vendor models.
var (
	SalesFeatureNames    = []string{"weekday", "month", "day", "amount"}
	FeedbackFeatureNames = []string{"weekday", "month", "day", "recommended_quantity", "rating"}
)

// dataset is a chronologically ordered design matrix.
type dataset struct {
	X [][]float64
	y []float64
}

func (d dataset) len() int {
	return len(d.y)
}

func (d *dataset) add(row []float64, target float64) {
	d.X = append(d.X, row)
	d.y = append(d.y, target)
}

func calendar(t time.Time) (weekday, month, day float64) {
	return float64(models.Weekday(t)), float64(t.Month()), float64(t.Day())
}

// salesDataset has one row per (sale, line item) with a date and a
// positive quantity. The target is the quantity; amount is quantity times
// unit price, or the quantity when the price is unknown.
func salesDataset(records []models.SalesRecord) dataset {
	var d dataset
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		weekday, month, day := calendar(rec.Date)
		for _, item := range rec.LineItems {
			if item.Quantity <= 0 {
				continue
			}
			amount := item.Quantity
			if item.UnitPrice != nil {
				amount = item.Quantity * *item.UnitPrice
			}
			d.add([]float64{weekday, month, day, amount}, item.Quantity)
		}
	}
	return d
}

// feedbackDataset has one row per example with a positive actual quantity.
// The target is the actual quantity sold.
func feedbackDataset(examples []models.FeedbackExample) dataset {
	var d dataset
	for _, ex := range examples {
		if ex.ActualQuantitySold == nil || *ex.ActualQuantitySold <= 0 {
			continue
		}
		rating := models.NeutralRating
		if ex.Rating != nil {
			rating = *ex.Rating
		}
		weekday, month, day := calendar(ex.MarketDate)
		d.add([]float64{weekday, month, day, float64(ex.RecommendedQuantity), float64(rating)}, float64(*ex.ActualQuantitySold))
	}
	return d
}
