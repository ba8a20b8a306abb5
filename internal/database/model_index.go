// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/stallcast/internal/logging"
	"github.com/tomtom215/stallcast/internal/models"
)

// InstallRequest describes a conditional model installation.
//
// Accept sees the currently installed version (nil when none) and decides
// whether the candidate replaces it. Persist writes the artifact for the
// assigned version and returns the index row. Discard, when set, removes a
// persisted artifact whose index row could not be committed.
type InstallRequest struct {
	VendorID string
	Accept   func(current *models.ModelVersion) bool
	Persist  func(version int) (*models.ModelVersion, error)
	Discard  func(*models.ModelVersion)
}

// InstallResult reports the outcome of InstallModelVersion.
type InstallResult struct {
	Installed *models.ModelVersion
	Previous  *models.ModelVersion
}

const modelVersionColumns = `vendor_id, version, created_at, source, mae, rmse, r2, mape, feature_names, locator, samples`

func scanModelVersion(row interface{ Scan(...any) error }) (*models.ModelVersion, error) {
	var (
		mv       models.ModelVersion
		features string
	)
	if err := row.Scan(&mv.VendorID, &mv.Version, &mv.CreatedAt, &mv.Source, &mv.Metrics.MAE,
		&mv.Metrics.RMSE, &mv.Metrics.R2, &mv.Metrics.MAPE, &features, &mv.Locator, &mv.Samples); err != nil {
		return nil, err
	}
	if features != "" {
		mv.FeatureNames = strings.Split(features, ",")
	}
	return &mv, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func latestModelVersion(ctx context.Context, q queryRower, vendorID string) (*models.ModelVersion, error) {
	mv, err := scanModelVersion(q.QueryRowContext(ctx, `
		SELECT `+modelVersionColumns+`
		FROM model_versions
		WHERE vendor_id = ?
		ORDER BY version DESC
		LIMIT 1`, vendorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return mv, err
}

// LatestModelVersion returns the installed model version of a vendor, or nil
// when the vendor has none.
func (db *DB) LatestModelVersion(ctx context.Context, vendorID string) (*models.ModelVersion, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	mv, err := latestModelVersion(ctx, db.conn, vendorID)
	observe("SELECT", "model_versions", start, err)
	if err != nil {
		return nil, fmt.Errorf("query latest model version: %w", err)
	}
	return mv, nil
}

// ListModelVersions returns every recorded version of a vendor, newest first.
func (db *DB) ListModelVersions(ctx context.Context, vendorID string) ([]models.ModelVersion, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+modelVersionColumns+`
		FROM model_versions
		WHERE vendor_id = ?
		ORDER BY version DESC`, vendorID)
	observe("SELECT", "model_versions", start, err)
	if err != nil {
		return nil, fmt.Errorf("query model versions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var versions []models.ModelVersion
	for rows.Next() {
		mv, err := scanModelVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model version: %w", err)
		}
		versions = append(versions, *mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model versions: %w", err)
	}
	return versions, nil
}

// InstallModelVersion compares and installs a candidate model in a single
// transaction, so concurrent trainers for the same vendor cannot both
// replace the same predecessor. When Accept rejects the candidate the
// result has a nil Installed and nothing is persisted.
func (db *DB) InstallModelVersion(ctx context.Context, req InstallRequest) (result InstallResult, err error) {
	if req.Accept == nil || req.Persist == nil {
		return InstallResult{}, fmt.Errorf("install request for %s is missing callbacks", req.VendorID)
	}
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return InstallResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var persisted *models.ModelVersion
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
		}
		if persisted != nil && req.Discard != nil {
			req.Discard(persisted)
		}
	}()

	current, err := latestModelVersion(ctx, tx, req.VendorID)
	if err != nil {
		return InstallResult{}, fmt.Errorf("query current model version: %w", err)
	}
	result.Previous = current

	if !req.Accept(current) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Warn().Err(rbErr).Msg("Rollback of rejected install failed")
		}
		return result, nil
	}

	next := 1
	if current != nil {
		next = current.Version + 1
	}
	persisted, err = req.Persist(next)
	if err != nil {
		return InstallResult{}, fmt.Errorf("persist model v%d: %w", next, err)
	}
	persisted.VendorID = req.VendorID
	persisted.Version = next
	if persisted.CreatedAt.IsZero() {
		persisted.CreatedAt = time.Now()
	}

	start := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO model_versions (`+modelVersionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		persisted.VendorID, persisted.Version, utc(persisted.CreatedAt), persisted.Source,
		persisted.Metrics.MAE, persisted.Metrics.RMSE, persisted.Metrics.R2, persisted.Metrics.MAPE,
		strings.Join(persisted.FeatureNames, ","), persisted.Locator, persisted.Samples)
	observe("INSERT", "model_versions", start, err)
	if err != nil {
		return InstallResult{}, fmt.Errorf("insert model version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return InstallResult{}, fmt.Errorf("commit model version: %w", err)
	}
	result.Installed = persisted
	return result, nil
}
