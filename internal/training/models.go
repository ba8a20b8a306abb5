// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/algorithms"
	"github.com/tomtom215/stallcast/internal/recommend/storage"
)

// LatestMetadata returns the metadata of the vendor's latest model. It
// returns zero metadata and no error when the vendor has no model or the
// sidecar is missing.
func (t *Trainer) LatestMetadata(ctx context.Context, vendorID string) (models.ModelMetadata, error) {
	mv, err := t.store.LatestModelVersion(ctx, vendorID)
	if err != nil {
		return models.ModelMetadata{}, fmt.Errorf("latest model version: %w", err)
	}
	if mv == nil {
		return models.ModelMetadata{}, nil
	}

	meta, err := t.artifacts.ReadMetadata(mv.Locator)
	if errors.Is(err, os.ErrNotExist) {
		t.logger.Warn().Str("vendor_id", vendorID).Str("path", mv.Locator).Msg("Model sidecar missing")
		return models.ModelMetadata{}, nil
	}
	if err != nil {
		return models.ModelMetadata{}, err
	}
	return meta.ModelMetadata, nil
}

// Model is a loaded vendor model.
type Model struct {
	Metadata storage.Metadata
	pipeline *algorithms.Pipeline
}

// Predict scores one sample given by feature name. Missing features are 0.
func (m *Model) Predict(values map[string]float64) (float64, error) {
	x := make([]float64, len(m.Metadata.FeatureNames))
	for i, name := range m.Metadata.FeatureNames {
		x[i] = values[name]
	}
	return m.pipeline.Predict(x)
}

// LoadLatest loads the vendor's latest model. It returns ErrNoModel when
// none is installed.
func (t *Trainer) LoadLatest(ctx context.Context, vendorID string) (*Model, error) {
	mv, err := t.store.LatestModelVersion(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("latest model version: %w", err)
	}
	if mv == nil {
		return nil, fmt.Errorf("vendor %s: %w", vendorID, ErrNoModel)
	}

	artifact, err := t.artifacts.Load(ctx, mv.Locator)
	if err != nil {
		return nil, fmt.Errorf("load model v%d for vendor %s: %w", mv.Version, vendorID, err)
	}
	pipeline, err := algorithms.RestorePipeline(artifact.State)
	if err != nil {
		return nil, fmt.Errorf("restore model v%d for vendor %s: %w", mv.Version, vendorID, err)
	}
	return &Model{Metadata: artifact.Metadata, pipeline: pipeline}, nil
}
