// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/stallcast/internal/config"
)

// PublisherConfig configures the transport and the publish breaker.
type PublisherConfig struct {
	// URL of the NATS server. Empty selects the in-process gochannel.
	URL string

	// TopicPrefix is prepended to every event type.
	TopicPrefix string

	// NATS reconnection
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int

	// Subscriber settings
	SubscribersCount int
	AckWaitTimeout   time.Duration
	CloseTimeout     time.Duration

	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig configures the publish circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultPublisherConfig returns production defaults for cfg.
func DefaultPublisherConfig(cfg config.EventsConfig) PublisherConfig {
	return PublisherConfig{
		URL:              cfg.NATSURL,
		TopicPrefix:      cfg.TopicPrefix,
		MaxReconnects:    -1, // unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		CircuitBreaker: CircuitBreakerConfig{
			Name:             "event-publisher",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// UsesNATS reports whether the configuration selects the NATS transport.
func (c PublisherConfig) UsesNATS() bool {
	return c.URL != ""
}

// Validate checks the configuration.
func (c PublisherConfig) Validate() error {
	if c.TopicPrefix == "" {
		return fmt.Errorf("%w: topic prefix is required", ErrInvalidConfig)
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("%w: circuit breaker failure threshold must be positive", ErrInvalidConfig)
	}
	if c.UsesNATS() && c.SubscribersCount < 1 {
		return fmt.Errorf("%w: subscribers count must be at least 1", ErrInvalidConfig)
	}
	return nil
}
