// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package logging provides the process-wide zerolog logger for Stallcast.

Components receive a zerolog.Logger by value and derive a child with a
component field. Background jobs tag their log lines with a run ID carried in
the context so a single retrain or accuracy sweep can be followed end to end.

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logger := logging.WithComponent("trainer")
	logger.Info().Str("vendor_id", id).Msg("Model installed")

	ctx = logging.ContextWithNewRunID(ctx)
	logging.Ctx(ctx).Info().Msg("Retrain run started")

The suture supervisor logs through log/slog; NewSlogLogger bridges those
records into zerolog so all output shares one format.
*/
package logging
