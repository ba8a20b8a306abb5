// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/stallcast/internal/metrics"
)

// Outcome classifies one vendor in a retrain sweep.
type Outcome string

const (
	OutcomeRetrained Outcome = "retrained"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// VendorOutcome is one vendor's line in a Report.
type VendorOutcome struct {
	VendorID string         `json:"vendor_id"`
	Outcome  Outcome        `json:"status"`
	Result   *RetrainResult `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Report summarizes RetrainAll.
type Report struct {
	TotalVendors int             `json:"total_vendors"`
	Retrained    int             `json:"retrained"`
	Skipped      int             `json:"skipped"`
	Failed       int             `json:"failed"`
	Details      []VendorOutcome `json:"details"`
	Duration     time.Duration   `json:"duration"`
}

func (r *Report) add(o VendorOutcome) {
	switch o.Outcome {
	case OutcomeRetrained:
		r.Retrained++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Details = append(r.Details, o)
}

// RetrainAll retrains every vendor that has feedback. Vendors are processed
// one at a time behind the rate limiter; a failing vendor is recorded and
// the sweep continues. An error is returned only when the vendor list
// cannot be loaded or ctx ends, together with the partial report.
func (t *Trainer) RetrainAll(ctx context.Context) (Report, error) {
	start := time.Now()
	defer func() { metrics.RetrainDuration.Observe(time.Since(start).Seconds()) }()

	vendors, err := t.store.VendorsWithFeedback(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list vendors with feedback: %w", err)
	}

	report := Report{TotalVendors: len(vendors), Details: make([]VendorOutcome, 0, len(vendors))}
	t.logger.Info().Int("vendors", len(vendors)).Msg("Starting retrain sweep")

	for _, vendorID := range vendors {
		if err := t.limiter.Wait(ctx); err != nil {
			report.Duration = time.Since(start)
			return report, fmt.Errorf("retrain sweep interrupted: %w", err)
		}

		outcome := VendorOutcome{VendorID: vendorID.String()}
		result, err := t.RetrainWithFeedback(ctx, vendorID)
		switch {
		case err != nil:
			outcome.Outcome = OutcomeFailed
			outcome.Error = err.Error()
			t.logger.Error().Err(err).Str("vendor_id", outcome.VendorID).Msg("Vendor retrain failed")
		case result == nil:
			outcome.Outcome = OutcomeSkipped
		default:
			outcome.Outcome = OutcomeRetrained
			outcome.Result = result
		}
		report.add(outcome)
	}

	report.Duration = time.Since(start)
	t.logger.Info().
		Int("total", report.TotalVendors).
		Int("retrained", report.Retrained).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Retrain sweep complete")
	return report, nil
}
