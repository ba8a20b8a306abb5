// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package accuracy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/eventprocessor"
	"github.com/tomtom215/stallcast/internal/metrics"
)

// Events publishes the monitor report.
type Events interface {
	Emit(ctx context.Context, eventType, vendorID string, payload any)
}

// MonitorReport is the result of one monitor run and the payload of the
// accuracy.report event.
type MonitorReport struct {
	MonitoredAt    time.Time `json:"monitored_at"`
	DaysBack       int       `json:"days_back"`
	Overall        Metrics   `json:"overall"`
	VendorCount    int       `json:"vendor_count"`
	VendorsMeeting int       `json:"vendors_meeting_criterion"`
	VendorsFailing []string  `json:"vendors_failing"`
}

// Monitor periodically evaluates accuracy across all vendors.
type Monitor struct {
	tracker  *Tracker
	events   Events
	daysBack int
	logger   zerolog.Logger
}

// NewMonitor creates a monitor over the last daysBack days. events may be
// nil.
func NewMonitor(tracker *Tracker, events Events, daysBack int, logger zerolog.Logger) *Monitor {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	return &Monitor{
		tracker:  tracker,
		events:   events,
		daysBack: daysBack,
		logger:   logger.With().Str("component", "accuracy_monitor").Logger(),
	}
}

// Run computes overall accuracy, then each active vendor's accuracy.
// Vendors below the success threshold are listed in VendorsFailing; a
// vendor whose metrics cannot be loaded is logged and left out.
func (m *Monitor) Run(ctx context.Context) (MonitorReport, error) {
	report := MonitorReport{MonitoredAt: m.tracker.now().UTC(), DaysBack: m.daysBack, VendorsFailing: []string{}}

	overall, err := m.tracker.OverallAccuracy(ctx, m.daysBack)
	if err != nil {
		return report, err
	}
	report.Overall = overall
	metrics.PredictionAccuracyRate.WithLabelValues("overall").Set(overall.AccuracyRate)

	vendors, err := m.tracker.store.VendorsWithRecommendations(ctx, m.tracker.since(m.daysBack))
	if err != nil {
		return report, fmt.Errorf("list active vendors: %w", err)
	}
	report.VendorCount = len(vendors)

	for _, vendorID := range vendors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		vm, err := m.tracker.VendorAccuracy(ctx, vendorID, m.daysBack)
		if err != nil {
			m.logger.Warn().Err(err).Str("vendor_id", vendorID.String()).Msg("Vendor accuracy unavailable")
			continue
		}
		if vm.PredictionsWithFeedback == 0 {
			continue
		}
		metrics.PredictionAccuracyRate.WithLabelValues(vendorID.String()).Set(vm.AccuracyRate)
		if vm.MeetsSuccessCriterion {
			report.VendorsMeeting++
		} else {
			report.VendorsFailing = append(report.VendorsFailing, vendorID.String())
		}
	}
	metrics.VendorsMeetingCriterion.Set(float64(report.VendorsMeeting))

	m.logger.Info().
		Float64("accuracy_rate", overall.AccuracyRate).
		Bool("meets_criterion", overall.MeetsSuccessCriterion).
		Int("vendors", report.VendorCount).
		Int("vendors_meeting", report.VendorsMeeting).
		Int("vendors_failing", len(report.VendorsFailing)).
		Msg("Accuracy monitor run complete")

	if m.events != nil {
		m.events.Emit(ctx, eventprocessor.EventAccuracyReport, "", report)
	}
	return report, nil
}
