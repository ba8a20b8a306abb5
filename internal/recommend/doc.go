// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package recommend turns a vendor, product and market date into a stocking
// recommendation.
//
// # Flow
//
// Every call to Engine.Generate builds its own ProductModel. The model is
// fitted lazily on the product's recent sales (ridge regression over the
// feature schema in package features) and moves through three states:
//
//	Untrained --fit ok--> Trained
//	Untrained --fit failed or too few samples--> TrainingFailed (terminal)
//
// A Trained model predicts the quantity. Anything else, including a
// prediction error, a non-finite prediction or an open circuit breaker,
// yields the rule-based quantity from package fallback. The resulting
// Prediction is tagged with its Source and the stored recommendation
// records it as historical_features.using_fallback.
//
// # Resilience
//
// Model fit and predict run inside a sony/gobreaker circuit breaker shared
// by all calls of one Engine. Too little history is not a failure. Fit and
// predict errors are; after recommend.breaker_max_failures consecutive
// failures the model path is skipped until recommend.breaker_timeout
// elapses.
//
// # Batches
//
// GenerateForDate folds Generate over the vendor's active products. A
// failing product is logged, counted in
// stallcast_recommendation_batch_failures_total and dropped.
package recommend
