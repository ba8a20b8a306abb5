// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package services

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/logging"
)

func nopLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// serveUntil runs svc until cond holds or the deadline passes, then stops it.
func serveUntil(t *testing.T, svc interface{ Serve(context.Context) error }, cond func() bool, deadline time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	stop := time.Now().Add(deadline)
	for !cond() && time.Now().Before(stop) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestNewScheduledService_InvalidSchedule(t *testing.T) {
	_, err := NewScheduledService(ScheduledServiceConfig{Name: "bad", Schedule: "every tuesday"}, func(context.Context) error { return nil }, nopLogger())
	if err == nil {
		t.Fatal("NewScheduledService() error = nil, want parse error")
	}
}

func TestScheduledService_Next(t *testing.T) {
	svc, err := NewScheduledService(ScheduledServiceConfig{Name: "retrain", Schedule: "0 3 * * *"}, func(context.Context) error { return nil }, nopLogger())
	if err != nil {
		t.Fatalf("NewScheduledService() error = %v", err)
	}
	from := time.Date(2025, 6, 14, 4, 0, 0, 0, time.UTC)
	want := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	if got := svc.Next(from); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
	if got := svc.String(); got != "retrain" {
		t.Errorf("String() = %q, want %q", got, "retrain")
	}
}

func TestScheduledService_RunOnStartup(t *testing.T) {
	var runs atomic.Int32
	var sawDeadline, sawRunID atomic.Bool
	job := func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		sawRunID.Store(logging.RunIDFromContext(ctx) != "")
		runs.Add(1)
		return errors.New("vendor table locked")
	}
	svc, err := NewScheduledService(ScheduledServiceConfig{
		Name:         "startup",
		Schedule:     "0 3 * * *",
		RunOnStartup: true,
		Timeout:      time.Minute,
	}, job, nopLogger())
	if err != nil {
		t.Fatalf("NewScheduledService() error = %v", err)
	}

	// A failing run must not end Serve; only cancellation does.
	serveUntil(t, svc, func() bool { return runs.Load() == 1 }, 2*time.Second)

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	if !sawDeadline.Load() {
		t.Error("job context has no deadline, want the configured timeout")
	}
	if !sawRunID.Load() {
		t.Error("job context has no run ID")
	}
}

func TestScheduledService_Tick(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron tick")
	}
	var runs atomic.Int32
	svc, err := NewScheduledService(ScheduledServiceConfig{Name: "tick", Schedule: "@every 1s"}, func(context.Context) error {
		runs.Add(1)
		return nil
	}, nopLogger())
	if err != nil {
		t.Fatalf("NewScheduledService() error = %v", err)
	}

	serveUntil(t, svc, func() bool { return runs.Load() >= 1 }, 3*time.Second)
	if runs.Load() < 1 {
		t.Error("job never ran on schedule")
	}
}
