// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"
)

// startNATS runs an embedded core NATS server on a random port.
func startNATS(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		ServerName: "stallcast-test",
		Host:       "127.0.0.1",
		Port:       server.RANDOM_PORT,
		NoLog:      true,
		NoSigs:     true,
	})
	if err != nil {
		t.Fatalf("create NATS server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("NATS server not ready within timeout")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNATSTransport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS test in short mode")
	}
	url := startNATS(t)
	cfg := testPublisherConfig(url)

	transport, err := NewTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTransport() error = %v", err)
	}
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msgs, err := transport.Subscribe(ctx, Topic(cfg.TopicPrefix, EventModelRejected))
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub, err := NewPublisher(transport, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	// The server registers the subscription asynchronously; publish until
	// the first message arrives.
	var event *Event
	for event == nil {
		if err := pub.Publish(ctx, EventModelRejected, "vendor-3", testPayload{Version: 4, MAE: 2}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case msg := <-msgs:
			msg.Ack()
			if event, err = DeserializeEvent(msg.Payload); err != nil {
				t.Fatalf("DeserializeEvent() error = %v", err)
			}
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}
	var payload testPayload
	if err := event.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if event.VendorID != "vendor-3" || payload.Version != 4 {
		t.Errorf("event = %+v payload = %+v, want vendor-3 version 4", event, payload)
	}
}

func TestNewTransport_GoChannelWithoutURL(t *testing.T) {
	transport, err := NewTransport(testPublisherConfig(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTransport() error = %v", err)
	}
	defer transport.Close()
	if _, ok := transport.(natsPubSub); ok {
		t.Error("NewTransport() without URL returned the NATS transport")
	}
}
