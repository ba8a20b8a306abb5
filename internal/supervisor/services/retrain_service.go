// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/training"
)

// RetrainRunner is satisfied by *training.Trainer.
type RetrainRunner interface {
	RetrainAll(ctx context.Context) (training.Report, error)
}

// NewRetrainService schedules the feedback retrain sweep on
// cfg.RetrainSchedule.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(trainer RetrainRunner, cfg config.TrainingConfig, logger zerolog.Logger) (*ScheduledService, error) {
	return NewScheduledService(ScheduledServiceConfig{
		Name:         "retrain-service",
		Schedule:     cfg.RetrainSchedule,
		RunOnStartup: cfg.RetrainOnStartup,
		Timeout:      cfg.RetrainTimeout,
	}, func(ctx context.Context) error {
		report, err := trainer.RetrainAll(ctx)
		if err != nil {
			return err
		}
		event := logger.Info()
		if report.Failed > 0 {
			event = logger.Warn()
		}
		event.
			Int("vendors", report.TotalVendors).
			Int("retrained", report.Retrained).
			Int("skipped", report.Skipped).
			Int("failed", report.Failed).
			Msg("Retrain sweep finished")
		return nil
	}, logger)
}
