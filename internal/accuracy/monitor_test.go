// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package accuracy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/eventprocessor"
	"github.com/tomtom215/stallcast/internal/metrics"
	"github.com/tomtom215/stallcast/internal/models"
)

type recordedEvent struct {
	eventType string
	payload   any
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Emit(_ context.Context, eventType, _ string, payload any) {
	f.events = append(f.events, recordedEvent{eventType: eventType, payload: payload})
}

func TestMonitorRun(t *testing.T) {
	good, bad, quiet, broken := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	store := &fakeStore{
		overall: models.AccuracyCounts{TotalPredictions: 40, WithFeedback: 20, Accurate: 15},
		vendors: map[uuid.UUID]models.AccuracyCounts{
			good:  {TotalPredictions: 20, WithFeedback: 10, Accurate: 9},
			bad:   {TotalPredictions: 15, WithFeedback: 10, Accurate: 6},
			quiet: {TotalPredictions: 5},
		},
		failFor: map[uuid.UUID]error{broken: errors.New("timeout")},
	}
	events := &fakeEvents{}
	m := NewMonitor(newTestTracker(store), events, 30, zerolog.Nop())

	report, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Overall.AccuracyRate != 75 || !report.Overall.MeetsSuccessCriterion {
		t.Errorf("Overall = %+v, want 75%% meeting criterion", report.Overall)
	}
	if report.VendorCount != 4 {
		t.Errorf("VendorCount = %d, want 4", report.VendorCount)
	}
	if report.VendorsMeeting != 1 {
		t.Errorf("VendorsMeeting = %d, want 1", report.VendorsMeeting)
	}
	if len(report.VendorsFailing) != 1 || report.VendorsFailing[0] != bad.String() {
		t.Errorf("VendorsFailing = %v, want [%s]", report.VendorsFailing, bad)
	}
	if !report.MonitoredAt.Equal(trackerNow) {
		t.Errorf("MonitoredAt = %v, want %v", report.MonitoredAt, trackerNow)
	}

	if got := testutil.ToFloat64(metrics.PredictionAccuracyRate.WithLabelValues("overall")); got != 75 {
		t.Errorf("overall gauge = %v, want 75", got)
	}
	if got := testutil.ToFloat64(metrics.PredictionAccuracyRate.WithLabelValues(good.String())); got != 90 {
		t.Errorf("vendor gauge = %v, want 90", got)
	}
	if got := testutil.ToFloat64(metrics.VendorsMeetingCriterion); got != 1 {
		t.Errorf("vendors meeting gauge = %v, want 1", got)
	}

	if len(events.events) != 1 || events.events[0].eventType != eventprocessor.EventAccuracyReport {
		t.Fatalf("events = %+v, want one accuracy.report", events.events)
	}
	if _, ok := events.events[0].payload.(MonitorReport); !ok {
		t.Errorf("payload type = %T, want MonitorReport", events.events[0].payload)
	}
}

func TestMonitorRun_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	events := &fakeEvents{}
	m := NewMonitor(newTestTracker(store), events, 0, zerolog.Nop())

	if _, err := m.Run(context.Background()); !errors.Is(err, store.err) {
		t.Errorf("Run() error = %v, want %v", err, store.err)
	}
	if len(events.events) != 0 {
		t.Errorf("events = %d, want none on failure", len(events.events))
	}
}

func TestMonitorRun_NilEvents(t *testing.T) {
	store := &fakeStore{vendors: map[uuid.UUID]models.AccuracyCounts{}}
	m := NewMonitor(newTestTracker(store), nil, 30, zerolog.Nop())
	if _, err := m.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
