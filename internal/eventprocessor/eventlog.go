// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// EventLog writes one log line per received event.
type EventLog struct {
	subscriber message.Subscriber
	prefix     string
	logger     zerolog.Logger
}

// NewEventLog creates an EventLog reading from sub.
func NewEventLog(sub message.Subscriber, prefix string, logger zerolog.Logger) *EventLog {
	return &EventLog{
		subscriber: sub,
		prefix:     prefix,
		logger:     logger.With().Str("component", "event-log").Logger(),
	}
}

// Serve subscribes to every event topic and logs until ctx is done.
func (l *EventLog) Serve(ctx context.Context) error {
	merged := make(chan *message.Message)
	for _, eventType := range EventTypes {
		topic := Topic(l.prefix, eventType)
		msgs, err := l.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go forward(ctx, msgs, merged)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-merged:
			l.handle(msg)
		}
	}
}

func forward(ctx context.Context, in <-chan *message.Message, out chan<- *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}
}

func (l *EventLog) handle(msg *message.Message) {
	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		l.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		msg.Ack()
		return
	}
	l.logger.Info().
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Str("vendor_id", event.VendorID).
		Time("event_time", event.Timestamp).
		RawJSON("payload", event.Payload).
		Msg("Event received")
	msg.Ack()
}

// String names the service for the supervisor.
func (l *EventLog) String() string {
	return "event-log"
}
