// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

// Package storage persists fitted vendor models.
//
// Each model version is written as one artifact file plus a JSON metadata
// sidecar next to it:
//
//	{vendor}_v{version}_{YYYYMMDD_HHMMSS}.gob.gz
//	{vendor}_v{version}_{YYYYMMDD_HHMMSS}.json
//
// The artifact is a gob-encoded envelope holding the metadata and the
// gzip-compressed, gob-encoded pipeline state. A SHA-256 checksum of the
// uncompressed state is verified on every load.
//
// The store does not decide which version is current. That is the job of
// the versioned model index in the database; the store only writes, reads
// and removes the files the index points at.
package storage
