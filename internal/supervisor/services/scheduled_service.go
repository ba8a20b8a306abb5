// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/logging"
)

// Job is one run of a scheduled task.
type Job func(ctx context.Context) error

// ScheduledServiceConfig configures a ScheduledService.
type ScheduledServiceConfig struct {
	Name string

	// Schedule is a standard cron expression in UTC.
	Schedule string

	// RunOnStartup runs the job once as soon as the service starts.
	RunOnStartup bool

	// Timeout bounds a single run. Zero means no bound.
	Timeout time.Duration
}

// ScheduledService runs a Job on a cron schedule.
type ScheduledService struct {
	job      Job
	schedule cron.Schedule
	config   ScheduledServiceConfig
	logger   zerolog.Logger
}

// NewScheduledService parses cfg.Schedule and returns the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScheduledService(cfg ScheduledServiceConfig, job Job, logger zerolog.Logger) (*ScheduledService, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid schedule %q: %w", cfg.Name, cfg.Schedule, err)
	}
	return &ScheduledService{
		job:      job,
		schedule: schedule,
		config:   cfg,
		logger:   logger.With().Str("service", cfg.Name).Logger(),
	}, nil
}

// Next returns the first scheduled run after t.
func (s *ScheduledService) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Serve implements suture.Service.
func (s *ScheduledService) Serve(ctx context.Context) error {
	trigger := make(chan struct{}, 1)
	c := cron.New(cron.WithLocation(time.UTC))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		select {
		case trigger <- struct{}{}:
		default:
			s.logger.Warn().Msg("Previous run still in progress, skipping tick")
		}
	}))
	c.Start()
	defer func() { <-c.Stop().Done() }()

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Bool("run_on_startup", s.config.RunOnStartup).
		Time("next_run", s.Next(time.Now().UTC())).
		Msg("Scheduled service starting")

	if s.config.RunOnStartup {
		s.run(ctx, "startup")
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduled service shutting down")
			return ctx.Err()
		case <-trigger:
			s.run(ctx, "schedule")
		}
	}
}

// run executes the job once. Errors are logged; the next tick retries.
func (s *ScheduledService) run(ctx context.Context, trigger string) {
	runCtx := logging.ContextWithNewRunID(ctx)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.config.Timeout)
		defer cancel()
	}

	logger := s.logger.With().
		Str("run_id", logging.RunIDFromContext(runCtx)).
		Str("trigger", trigger).
		Logger()

	start := time.Now()
	logger.Info().Msg("Job run starting")
	if err := s.job(runCtx); err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Job run failed")
		return
	}
	logger.Info().Dur("duration", time.Since(start)).Msg("Job run complete")
}

// String implements fmt.Stringer for suture's logs.
func (s *ScheduledService) String() string {
	return s.config.Name
}
