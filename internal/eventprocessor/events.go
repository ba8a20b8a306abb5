// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SchemaVersion is the current envelope schema version.
const SchemaVersion = 1

// Event types.
const (
	EventModelInstalled = "model.installed"
	EventModelRejected  = "model.rejected"
	EventAccuracyReport = "accuracy.report"
)

// EventTypes lists every event type this service publishes.
var EventTypes = []string{EventModelInstalled, EventModelRejected, EventAccuracyReport}

// Event is the envelope published for every event.
type Event struct {
	SchemaVersion int             `json:"schema_version"`
	EventID       string          `json:"event_id"`
	Type          string          `json:"type"`
	VendorID      string          `json:"vendor_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope with a fresh ID.
func NewEvent(eventType, vendorID string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Type:          eventType,
		VendorID:      vendorID,
		Timestamp:     time.Now().UTC(),
		Payload:       data,
	}, nil
}

// Validate checks required envelope fields.
func (e *Event) Validate() error {
	switch {
	case e.EventID == "":
		return &ValidationError{Field: "event_id", Message: "required"}
	case e.Type == "":
		return &ValidationError{Field: "type", Message: "required"}
	case e.Timestamp.IsZero():
		return &ValidationError{Field: "timestamp", Message: "required"}
	}
	return nil
}

// DecodePayload unmarshals the payload into v.
func (e *Event) DecodePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Topic returns the topic for an event type.
func Topic(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// ValidationError is an invalid envelope field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + e.Field + " " + e.Message
}
