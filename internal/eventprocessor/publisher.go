// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/stallcast/internal/metrics"
)

// Publisher wraps a Watermill publisher with the event envelope and
// circuit breaker protection. It is safe for concurrent use.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	prefix    string
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a Publisher on pub.
func NewPublisher(pub message.Publisher, cfg PublisherConfig, logger zerolog.Logger) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	logger = logger.With().Str("component", "events").Logger()
	return &Publisher{
		publisher: pub,
		breaker:   NewCircuitBreaker(cfg.CircuitBreaker, logger),
		prefix:    cfg.TopicPrefix,
		logger:    logger,
	}, nil
}

// Topic returns the full topic for an event type.
func (p *Publisher) Topic(eventType string) string {
	return Topic(p.prefix, eventType)
}

// Publish wraps payload in an Event and publishes it on the event type's
// topic. The message UUID doubles as the NATS message ID.
func (p *Publisher) Publish(ctx context.Context, eventType, vendorID string, payload any) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}

	event, err := NewEvent(eventType, vendorID, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize %s event: %w", eventType, err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", eventType)
	msg.Metadata.Set(natsgo.MsgIdHdr, event.EventID)
	if vendorID != "" {
		msg.Metadata.Set("vendor_id", vendorID)
	}

	topic := p.Topic(eventType)
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publisher.Publish(topic, msg)
	})
	metrics.RecordEventPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Emit publishes and logs failures instead of returning them.
func (p *Publisher) Emit(ctx context.Context, eventType, vendorID string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, eventType, vendorID, payload); err != nil {
		p.logger.Warn().Err(err).Str("type", eventType).Str("vendor_id", vendorID).Msg("Event publish failed")
	}
}

// Close shuts down the underlying publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
