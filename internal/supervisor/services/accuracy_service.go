// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/accuracy"
	"github.com/tomtom215/stallcast/internal/config"
)

// accuracyRunTimeout bounds one monitor run.
const accuracyRunTimeout = 5 * time.Minute

// AccuracyRunner is satisfied by *accuracy.Monitor.
type AccuracyRunner interface {
	Run(ctx context.Context) (accuracy.MonitorReport, error)
}

// NewAccuracyService schedules the accuracy monitor on cfg.MonitorSchedule.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAccuracyService(monitor AccuracyRunner, cfg config.AccuracyConfig, logger zerolog.Logger) (*ScheduledService, error) {
	return NewScheduledService(ScheduledServiceConfig{
		Name:     "accuracy-service",
		Schedule: cfg.MonitorSchedule,
		Timeout:  accuracyRunTimeout,
	}, func(ctx context.Context) error {
		report, err := monitor.Run(ctx)
		if err != nil {
			return err
		}
		if !report.Overall.MeetsSuccessCriterion && report.Overall.PredictionsWithFeedback > 0 {
			logger.Warn().
				Float64("accuracy_rate", report.Overall.AccuracyRate).
				Float64("threshold", cfg.SuccessThreshold).
				Strs("vendors_failing", report.VendorsFailing).
				Msg("Overall accuracy below success criterion")
		}
		return nil
	}, logger)
}
