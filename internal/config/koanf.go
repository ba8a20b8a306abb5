// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/stallcast/config.yaml",
	"/etc/stallcast/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/stallcast.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    9410,
			Timeout: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			MinHistorySamples:   14,
			HistoryLookbackDays: 365,
			BaselineConfidence:  0.7,
			FallbackConfidence:  0.5,
			ModelVersion:        "v1.0.0",
			RidgeLambda:         1.0,
			DefaultBatchLimit:   50,
			BreakerMaxFailures:  5,
			BreakerTimeout:      60 * time.Second,
		},
		Venue: VenueConfig{
			LookbackDays:          365,
			StalenessDays:         180,
			MinSamples:            3,
			HighConfidenceSamples: 20,
			SeasonalZThreshold:    1.5,
		},
		Fallback: FallbackConfig{
			DefaultQuantity: 5,
			LookbackDays:    30,
		},
		Training: TrainingConfig{
			ModelDir:            "/data/models",
			MinSalesRecords:     30,
			MinFeedbackRecords:  10,
			FeedbackDaysBack:    365,
			RidgeLambda:         1.0,
			TestFraction:        0.2,
			ReplaceOnTie:        true,
			RetrainEnabled:      true,
			RetrainSchedule:     "0 3 * * *",
			RetrainOnStartup:    false,
			RetrainTimeout:      30 * time.Minute,
			VendorRatePerSecond: 2,
		},
		Accuracy: AccuracyConfig{
			SuccessThreshold: 70,
			DaysBack:         30,
			MonitorEnabled:   true,
			MonitorSchedule:  "30 4 * * *",
		},
		Events: EventsConfig{
			Enabled:     true,
			NATSURL:     "",
			TopicPrefix: "stallcast",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	// Recommendation generation
	"recommend_min_history_samples":   "recommend.min_history_samples",
	"recommend_history_lookback_days": "recommend.history_lookback_days",
	"recommend_baseline_confidence":   "recommend.baseline_confidence",
	"recommend_fallback_confidence":   "recommend.fallback_confidence",
	"recommend_model_version":         "recommend.model_version",
	"recommend_ridge_lambda":          "recommend.ridge_lambda",
	"recommend_batch_limit":           "recommend.default_batch_limit",
	"recommend_breaker_max_failures":  "recommend.breaker_max_failures",
	"recommend_breaker_timeout":       "recommend.breaker_timeout",

	// Venue features
	"venue_lookback_days":           "venue.lookback_days",
	"venue_staleness_days":          "venue.staleness_days",
	"venue_min_samples":             "venue.min_samples",
	"venue_high_confidence_samples": "venue.high_confidence_samples",
	"venue_seasonal_z_threshold":    "venue.seasonal_z_threshold",

	// Fallback heuristic
	"fallback_default_quantity": "fallback.default_quantity",
	"fallback_lookback_days":    "fallback.lookback_days",

	// Training
	"model_dir":                     "training.model_dir",
	"training_min_sales_records":    "training.min_sales_records",
	"training_min_feedback_records": "training.min_feedback_records",
	"training_feedback_days_back":   "training.feedback_days_back",
	"training_ridge_lambda":         "training.ridge_lambda",
	"training_test_fraction":        "training.test_fraction",
	"training_replace_on_tie":       "training.replace_on_tie",
	"retrain_enabled":               "training.retrain_enabled",
	"retrain_schedule":              "training.retrain_schedule",
	"retrain_on_startup":            "training.retrain_on_startup",
	"retrain_timeout":               "training.retrain_timeout",
	"retrain_vendor_rate":           "training.vendor_rate_per_second",

	// Accuracy
	"accuracy_success_threshold": "accuracy.success_threshold",
	"accuracy_days_back":         "accuracy.days_back",
	"accuracy_monitor_enabled":   "accuracy.monitor_enabled",
	"accuracy_monitor_schedule":  "accuracy.monitor_schedule",

	// Events
	"events_enabled":      "events.enabled",
	"nats_url":            "events.nats_url",
	"events_topic_prefix": "events.topic_prefix",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped keys return "" and are skipped.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - RETRAIN_SCHEDULE -> training.retrain_schedule
//   - NATS_URL -> events.nats_url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
