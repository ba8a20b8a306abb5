// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Command recommend generates inventory recommendations for one market day,
or trains a vendor's baseline model, against the configured database.

	recommend -vendor 5f0c... -date 2025-06-14
	recommend -vendor 5f0c... -product 9a1e... -date 2025-06-14 -venue 77b2... -temp 72 -condition sunny
	recommend -vendor 5f0c... -train

Generated recommendations are stored and printed to stdout as JSON.
Configuration is loaded the same way as cmd/server.
*/
package main
