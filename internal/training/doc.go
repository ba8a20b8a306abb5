// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package training fits, evaluates and installs per-vendor models.
//
// TrainVendor builds a fresh baseline from a vendor's sales history.
// RetrainWithFeedback fits a candidate on feedback (actual quantities sold)
// and installs it only when it is not worse than the current model on
// hold-out MAE. Both use ridge regression with a standard scaler from
// package algorithms and a deterministic chronological 80/20 split.
//
// Installation goes through the model_versions index in one database
// transaction: read the latest version, compare, write the artifact under
// the next version number, insert the index row, commit. Artifacts are
// written by package storage as "{vendor}_v{version}_{YYYYMMDD_HHMMSS}.gob.gz"
// with a JSON metadata sidecar.
//
// Too little data is not an error: both operations return (nil, nil).
// RetrainAll sweeps every vendor with feedback behind a rate limiter and
// reports each outcome as retrained, skipped or failed.
package training
