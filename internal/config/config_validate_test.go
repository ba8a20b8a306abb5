// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"confidence above one", func(c *Config) { c.Recommend.BaselineConfidence = 1.2 }, true},
		{"negative fallback confidence", func(c *Config) { c.Recommend.FallbackConfidence = -0.1 }, true},
		{"zero min history", func(c *Config) { c.Recommend.MinHistorySamples = 0 }, true},
		{"venue tiers inverted", func(c *Config) { c.Venue.HighConfidenceSamples = 2 }, true},
		{"zero default quantity", func(c *Config) { c.Fallback.DefaultQuantity = 0 }, true},
		{"test fraction one", func(c *Config) { c.Training.TestFraction = 1 }, true},
		{"bad retrain schedule", func(c *Config) { c.Training.RetrainSchedule = "every day" }, true},
		{"bad schedule ignored when disabled", func(c *Config) {
			c.Training.RetrainEnabled = false
			c.Training.RetrainSchedule = "every day"
		}, false},
		{"threshold above 100", func(c *Config) { c.Accuracy.SuccessThreshold = 101 }, true},
		{"bad monitor schedule", func(c *Config) { c.Accuracy.MonitorSchedule = "x" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
