// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/accuracy"
	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/eventprocessor"
	"github.com/tomtom215/stallcast/internal/recommend/storage"
	"github.com/tomtom215/stallcast/internal/supervisor"
	"github.com/tomtom215/stallcast/internal/supervisor/services"
	"github.com/tomtom215/stallcast/internal/training"
)

// emitter is the event sink shared by the trainer and the monitor.
type emitter interface {
	Emit(ctx context.Context, eventType, vendorID string, payload any)
}

// components holds everything the supervised services run.
type components struct {
	cfg       *config.Config
	transport eventprocessor.PubSub
	prefix    string
	trainer   *training.Trainer
	monitor   *accuracy.Monitor
	logger    zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newComponents(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*components, error) {
	c := &components{cfg: cfg, logger: logger}

	var events emitter
	if cfg.Events.Enabled {
		pubCfg := eventprocessor.DefaultPublisherConfig(cfg.Events)
		transport, err := eventprocessor.NewTransport(pubCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("events transport: %w", err)
		}
		publisher, err := eventprocessor.NewPublisher(transport, pubCfg, logger)
		if err != nil {
			_ = transport.Close()
			return nil, fmt.Errorf("events publisher: %w", err)
		}
		c.transport, c.prefix, events = transport, pubCfg.TopicPrefix, publisher
		logger.Info().Bool("nats", pubCfg.UsesNATS()).Str("topic_prefix", pubCfg.TopicPrefix).Msg("Event publishing enabled")
	}

	artifacts, err := storage.NewStore(cfg.Training.ModelDir)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("model store: %w", err)
	}
	c.trainer = training.NewTrainer(db, artifacts, events, cfg.Training, logger)

	tracker := accuracy.NewTracker(db, cfg.Accuracy, logger)
	c.monitor = accuracy.NewMonitor(tracker, events, cfg.Accuracy.DaysBack, logger)
	return c, nil
}

// register adds the enabled background services to tree.
func (c *components) register(tree *supervisor.SupervisorTree) error {
	if c.cfg.Training.RetrainEnabled {
		svc, err := services.NewRetrainService(c.trainer, c.cfg.Training, c.logger)
		if err != nil {
			return err
		}
		tree.AddJobService(svc)
	}
	if c.cfg.Accuracy.MonitorEnabled {
		svc, err := services.NewAccuracyService(c.monitor, c.cfg.Accuracy, c.logger)
		if err != nil {
			return err
		}
		tree.AddJobService(svc)
	}
	if c.transport != nil {
		tree.AddMessagingService(eventprocessor.NewEventLog(c.transport, c.prefix, c.logger))
	}
	return nil
}

// close releases the event transport, which also closes the publisher's
// underlying connection.
func (c *components) close() {
	if c.transport != nil {
		if err := c.transport.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("Error closing event transport")
		}
	}
}
