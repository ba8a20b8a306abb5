// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"errors"
	"testing"
	"time"
)

type testPayload struct {
	Version int     `json:"version"`
	MAE     float64 `json:"mae"`
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(EventModelInstalled, "vendor-1", testPayload{Version: 3, MAE: 1.25})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	if event.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", event.SchemaVersion, SchemaVersion)
	}
	if event.EventID == "" {
		t.Error("EventID is empty")
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	data, err := SerializeEvent(event)
	if err != nil {
		t.Fatalf("SerializeEvent() error = %v", err)
	}
	decoded, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("DeserializeEvent() error = %v", err)
	}
	var payload testPayload
	if err := decoded.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if payload.Version != 3 || payload.MAE != 1.25 {
		t.Errorf("payload = %+v, want {3 1.25}", payload)
	}
	if decoded.VendorID != "vendor-1" {
		t.Errorf("VendorID = %q, want vendor-1", decoded.VendorID)
	}
}

func TestEventValidate(t *testing.T) {
	valid := Event{EventID: "id", Type: EventModelRejected, Timestamp: time.Now()}
	tests := []struct {
		name      string
		mutate    func(e *Event)
		wantField string
	}{
		{name: "valid", mutate: func(*Event) {}},
		{name: "missing id", mutate: func(e *Event) { e.EventID = "" }, wantField: "event_id"},
		{name: "missing type", mutate: func(e *Event) { e.Type = "" }, wantField: "type"},
		{name: "missing timestamp", mutate: func(e *Event) { e.Timestamp = time.Time{} }, wantField: "timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("Validate() error = %v, want field %s", err, tt.wantField)
			}
		})
	}
}

func TestDeserializeEventMalformed(t *testing.T) {
	if _, err := DeserializeEvent([]byte("{not json")); err == nil {
		t.Error("DeserializeEvent() error = nil, want error")
	}
	if _, err := DeserializeEvent([]byte(`{"type":"model.installed"}`)); err == nil {
		t.Error("DeserializeEvent(missing id) error = nil, want error")
	}
}

func TestTopic(t *testing.T) {
	tests := []struct {
		prefix, eventType, want string
	}{
		{"stallcast", EventModelInstalled, "stallcast.model.installed"},
		{"", EventAccuracyReport, "accuracy.report"},
	}
	for _, tt := range tests {
		if got := Topic(tt.prefix, tt.eventType); got != tt.want {
			t.Errorf("Topic(%q, %q) = %q, want %q", tt.prefix, tt.eventType, got, tt.want)
		}
	}
}

func TestPublisherConfigValidate(t *testing.T) {
	cfg := testPublisherConfig("")
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.TopicPrefix = ""
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate(empty prefix) error = %v, want ErrInvalidConfig", err)
	}

	cfg = testPublisherConfig("nats://127.0.0.1:4222")
	cfg.SubscribersCount = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate(no subscribers) error = %v, want ErrInvalidConfig", err)
	}
}
