// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	vendorIDKey contextKey = "vendor_id"
)

// GenerateRunID returns a short identifier for one background job run.
func GenerateRunID() string {
	return uuid.New().String()[:8]
}

// ContextWithRunID returns a context carrying the given run ID.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID returns a context carrying a fresh run ID.
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, GenerateRunID())
}

// RunIDFromContext returns the run ID, or "" if none is set.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithVendorID returns a context carrying the vendor being processed.
func ContextWithVendorID(ctx context.Context, vendorID string) context.Context {
	return context.WithValue(ctx, vendorIDKey, vendorID)
}

// VendorIDFromContext returns the vendor ID, or "" if none is set.
func VendorIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(vendorIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with run_id and vendor_id fields taken from ctx.
//
//	logging.Ctx(ctx).Info().Msg("Retraining vendor")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a logger context builder pre-populated from ctx.
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := With()
	if id := RunIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("run_id", id)
	}
	if id := VendorIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("vendor_id", id)
	}
	return logCtx
}
