// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/logging"
)

// PubSub is a transport that both publishes and subscribes.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

// natsPubSub joins a NATS publisher and subscriber.
type natsPubSub struct {
	message.Publisher
	message.Subscriber
}

func (n natsPubSub) Close() error {
	pubErr := n.Publisher.Close()
	subErr := n.Subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}

// WatermillLogger adapts a zerolog logger for Watermill components.
func WatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(slog.New(logging.NewSlogHandler(logger)))
}

// NewTransport returns the NATS transport when cfg.URL is set and an
// in-process gochannel otherwise.
func NewTransport(cfg PublisherConfig, logger zerolog.Logger) (PubSub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.UsesNATS() {
		return NewGoChannel(logger), nil
	}

	pub, err := NewNATSPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	sub, err := NewNATSSubscriber(cfg, logger)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}
	return natsPubSub{Publisher: pub, Subscriber: sub}, nil
}

// NewGoChannel creates an in-process pub/sub.
func NewGoChannel(logger zerolog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, WatermillLogger(logger))
}

func natsOptions(cfg PublisherConfig, logger zerolog.Logger) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
}

// NewNATSPublisher creates a core NATS publisher. JetStream is not used;
// events are notifications, not a durable log.
func NewNATSPublisher(cfg PublisherConfig, logger zerolog.Logger) (message.Publisher, error) {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, WatermillLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}
	return pub, nil
}

// NewNATSSubscriber creates a core NATS subscriber.
func NewNATSSubscriber(cfg PublisherConfig, logger zerolog.Logger) (message.Subscriber, error) {
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(cfg, logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, WatermillLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}
	return sub, nil
}
