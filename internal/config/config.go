// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package config

import "time"

// Config holds all application configuration.
// It is immutable after loading and safe for concurrent reads.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Recommend RecommendConfig `koanf:"recommend"`
	Venue     VenueConfig     `koanf:"venue"`
	Fallback  FallbackConfig  `koanf:"fallback"`
	Training  TrainingConfig  `koanf:"training"`
	Accuracy  AccuracyConfig  `koanf:"accuracy"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// ServerConfig holds the operational HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig holds settings for single and batch recommendation
// generation.
type RecommendConfig struct {
	// MinHistorySamples is the number of sales with quantity > 0 needed
	// before a per-product model is fitted.
	MinHistorySamples int `koanf:"min_history_samples"`

	// HistoryLookbackDays bounds the sales used to fit a per-product model.
	HistoryLookbackDays int `koanf:"history_lookback_days"`

	BaselineConfidence float64 `koanf:"baseline_confidence"`
	FallbackConfidence float64 `koanf:"fallback_confidence"`
	ModelVersion       string  `koanf:"model_version"`
	RidgeLambda        float64 `koanf:"ridge_lambda"`
	DefaultBatchLimit  int     `koanf:"default_batch_limit"`

	// Circuit breaker around the model path. After BreakerMaxFailures
	// consecutive model failures every call goes straight to the fallback
	// until BreakerTimeout elapses.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// VenueConfig holds venue feature engineering settings.
type VenueConfig struct {
	LookbackDays          int     `koanf:"lookback_days"`
	StalenessDays         int     `koanf:"staleness_days"`
	MinSamples            int     `koanf:"min_samples"`
	HighConfidenceSamples int     `koanf:"high_confidence_samples"`
	SeasonalZThreshold    float64 `koanf:"seasonal_z_threshold"`
}

// FallbackConfig holds rule-based heuristic settings.
type FallbackConfig struct {
	DefaultQuantity int `koanf:"default_quantity"`
	LookbackDays    int `koanf:"lookback_days"`
}

// TrainingConfig holds persisted vendor model settings.
type TrainingConfig struct {
	ModelDir           string  `koanf:"model_dir"`
	MinSalesRecords    int     `koanf:"min_sales_records"`
	MinFeedbackRecords int     `koanf:"min_feedback_records"`
	FeedbackDaysBack   int     `koanf:"feedback_days_back"`
	RidgeLambda        float64 `koanf:"ridge_lambda"`
	TestFraction       float64 `koanf:"test_fraction"`

	// ReplaceOnTie installs a retrained candidate whose MAE equals the
	// current model's MAE.
	ReplaceOnTie bool `koanf:"replace_on_tie"`

	// Retrain scheduling
	RetrainEnabled      bool          `koanf:"retrain_enabled"`
	RetrainSchedule     string        `koanf:"retrain_schedule"` // standard 5-field cron
	RetrainOnStartup    bool          `koanf:"retrain_on_startup"`
	RetrainTimeout      time.Duration `koanf:"retrain_timeout"`
	VendorRatePerSecond float64       `koanf:"vendor_rate_per_second"`
}

// AccuracyConfig holds accuracy tracking settings.
type AccuracyConfig struct {
	SuccessThreshold float64 `koanf:"success_threshold"`
	DaysBack         int     `koanf:"days_back"`
	MonitorEnabled   bool    `koanf:"monitor_enabled"`
	MonitorSchedule  string  `koanf:"monitor_schedule"`
}

// EventsConfig holds model lifecycle event publishing settings.
// An empty NATSURL publishes on an in-process channel.
type EventsConfig struct {
	Enabled     bool   `koanf:"enabled"`
	NATSURL     string `koanf:"nats_url"`
	TopicPrefix string `koanf:"topic_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
