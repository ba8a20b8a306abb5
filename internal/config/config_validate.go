// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateServer,
		c.validateRecommend,
		c.validateVenue,
		c.validateFallback,
		c.validateTraining,
		c.validateAccuracy,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinHistorySamples < 1 {
		return fmt.Errorf("RECOMMEND_MIN_HISTORY_SAMPLES must be >= 1, got %d", r.MinHistorySamples)
	}
	if r.HistoryLookbackDays < 1 {
		return fmt.Errorf("RECOMMEND_HISTORY_LOOKBACK_DAYS must be >= 1, got %d", r.HistoryLookbackDays)
	}
	if r.BaselineConfidence < 0 || r.BaselineConfidence > 1 {
		return fmt.Errorf("RECOMMEND_BASELINE_CONFIDENCE must be in [0,1], got %v", r.BaselineConfidence)
	}
	if r.FallbackConfidence < 0 || r.FallbackConfidence > 1 {
		return fmt.Errorf("RECOMMEND_FALLBACK_CONFIDENCE must be in [0,1], got %v", r.FallbackConfidence)
	}
	if r.ModelVersion == "" {
		return fmt.Errorf("RECOMMEND_MODEL_VERSION must not be empty")
	}
	if r.RidgeLambda < 0 {
		return fmt.Errorf("RECOMMEND_RIDGE_LAMBDA must be >= 0, got %v", r.RidgeLambda)
	}
	if r.DefaultBatchLimit < 1 {
		return fmt.Errorf("RECOMMEND_BATCH_LIMIT must be >= 1, got %d", r.DefaultBatchLimit)
	}
	return nil
}

func (c *Config) validateVenue() error {
	v := c.Venue
	if v.LookbackDays < 1 || v.StalenessDays < 1 {
		return fmt.Errorf("venue lookback and staleness days must be >= 1")
	}
	if v.MinSamples < 1 || v.HighConfidenceSamples <= v.MinSamples {
		return fmt.Errorf("VENUE_HIGH_CONFIDENCE_SAMPLES (%d) must exceed VENUE_MIN_SAMPLES (%d)",
			v.HighConfidenceSamples, v.MinSamples)
	}
	if v.SeasonalZThreshold <= 0 {
		return fmt.Errorf("VENUE_SEASONAL_Z_THRESHOLD must be > 0, got %v", v.SeasonalZThreshold)
	}
	return nil
}

func (c *Config) validateFallback() error {
	if c.Fallback.DefaultQuantity < 1 {
		return fmt.Errorf("FALLBACK_DEFAULT_QUANTITY must be >= 1, got %d", c.Fallback.DefaultQuantity)
	}
	if c.Fallback.LookbackDays < 1 {
		return fmt.Errorf("FALLBACK_LOOKBACK_DAYS must be >= 1, got %d", c.Fallback.LookbackDays)
	}
	return nil
}

func (c *Config) validateTraining() error {
	t := c.Training
	if t.ModelDir == "" {
		return fmt.Errorf("MODEL_DIR must not be empty")
	}
	if t.MinSalesRecords < 2 || t.MinFeedbackRecords < 2 {
		return fmt.Errorf("training minimum record counts must be >= 2")
	}
	if t.TestFraction <= 0 || t.TestFraction >= 1 {
		return fmt.Errorf("TRAINING_TEST_FRACTION must be in (0,1), got %v", t.TestFraction)
	}
	if t.RidgeLambda < 0 {
		return fmt.Errorf("TRAINING_RIDGE_LAMBDA must be >= 0, got %v", t.RidgeLambda)
	}
	if t.VendorRatePerSecond <= 0 {
		return fmt.Errorf("RETRAIN_VENDOR_RATE must be > 0, got %v", t.VendorRatePerSecond)
	}
	if t.RetrainEnabled {
		if _, err := cron.ParseStandard(t.RetrainSchedule); err != nil {
			return fmt.Errorf("invalid RETRAIN_SCHEDULE %q: %w", t.RetrainSchedule, err)
		}
	}
	return nil
}

func (c *Config) validateAccuracy() error {
	a := c.Accuracy
	if a.SuccessThreshold < 0 || a.SuccessThreshold > 100 {
		return fmt.Errorf("ACCURACY_SUCCESS_THRESHOLD must be in [0,100], got %v", a.SuccessThreshold)
	}
	if a.DaysBack < 1 {
		return fmt.Errorf("ACCURACY_DAYS_BACK must be >= 1, got %d", a.DaysBack)
	}
	if a.MonitorEnabled {
		if _, err := cron.ParseStandard(a.MonitorSchedule); err != nil {
			return fmt.Errorf("invalid ACCURACY_MONITOR_SCHEDULE %q: %w", a.MonitorSchedule, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, disabled; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
