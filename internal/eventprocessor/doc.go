// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package eventprocessor publishes model lifecycle and accuracy events
// through Watermill.
//
// Two transports are supported:
//
//   - In-process: a Watermill gochannel pub/sub. Used when events.nats_url
//     is empty, so a single binary needs no broker.
//   - NATS core: watermill-nats publisher and subscriber on events.nats_url.
//
// Every event is a JSON Event envelope (goccy/go-json) carrying a typed
// payload. Topics are "{events.topic_prefix}.{type}", for example
// "stallcast.model.installed".
//
// Publishing goes through a sony/gobreaker circuit breaker so a broker
// outage cannot stall training or monitoring. Publish failures are logged
// and counted in stallcast_events_published_total; producers treat events
// as best effort.
//
// EventLog subscribes to every topic and writes one structured log line
// per event. It runs as a supervised service.
package eventprocessor
