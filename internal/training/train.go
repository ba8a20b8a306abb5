// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/eventprocessor"
	"github.com/tomtom215/stallcast/internal/metrics"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/algorithms"
)

// candidate is a fitted and evaluated model awaiting installation.
type candidate struct {
	state     algorithms.PipelineState
	metrics   models.ModelMetrics
	trainN    int
	testN     int
	source    string
	features  []string
	trainedAt time.Time
}

// fit trains on the leading part of d and evaluates on the trailing part.
func (t *Trainer) fit(d dataset, source string, featureNames []string) (*candidate, error) {
	trainEnd := algorithms.ChronologicalSplit(d.len(), t.cfg.TestFraction)
	if trainEnd == d.len() {
		return nil, fmt.Errorf("split %d samples: %w", d.len(), algorithms.ErrEmptyTrainingSet)
	}

	p := algorithms.NewPipeline(t.cfg.RidgeLambda)
	if err := p.Fit(d.X[:trainEnd], d.y[:trainEnd]); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	predicted, err := p.PredictAll(d.X[trainEnd:])
	if err != nil {
		return nil, fmt.Errorf("predict test set: %w", err)
	}
	m, err := algorithms.Evaluate(d.y[trainEnd:], predicted)
	if err != nil {
		return nil, err
	}
	state, err := p.State()
	if err != nil {
		return nil, fmt.Errorf("export model state: %w", err)
	}

	return &candidate{
		state:     state,
		metrics:   m,
		trainN:    trainEnd,
		testN:     d.len() - trainEnd,
		source:    source,
		features:  featureNames,
		trainedAt: t.now().UTC(),
	}, nil
}

// installRequest builds the compare-then-replace request for c.
func (t *Trainer) installRequest(ctx context.Context, vendorID string, c *candidate, accept func(*models.ModelVersion) bool) database.InstallRequest {
	return database.InstallRequest{
		VendorID: vendorID,
		Accept:   accept,
		Persist: func(version int) (*models.ModelVersion, error) {
			path, err := t.artifacts.Save(ctx, models.ModelMetadata{
				VendorID:     vendorID,
				Version:      version,
				Source:       c.source,
				TrainedAt:    c.trainedAt,
				FeatureNames: c.features,
				Metrics:      c.metrics,
				Samples:      c.trainN,
			}, c.state)
			if err != nil {
				return nil, err
			}
			return &models.ModelVersion{
				CreatedAt:    c.trainedAt,
				Source:       c.source,
				Metrics:      c.metrics,
				FeatureNames: c.features,
				Locator:      path,
				Samples:      c.trainN,
			}, nil
		},
		Discard: func(mv *models.ModelVersion) {
			t.artifacts.Remove(mv.Locator)
		},
	}
}

// ShouldReplace reports whether a candidate with the given MAE replaces
// current. A missing current model is always replaced.
func ShouldReplace(candidateMAE float64, current *models.ModelVersion, replaceOnTie bool) bool {
	if current == nil {
		return true
	}
	if replaceOnTie {
		return candidateMAE <= current.Metrics.MAE
	}
	return candidateMAE < current.Metrics.MAE
}

// ModelInstalled is the payload of a model.installed event.
type ModelInstalled struct {
	Version         int                 `json:"version"`
	Source          string              `json:"source"`
	Metrics         models.ModelMetrics `json:"metrics"`
	Samples         int                 `json:"samples"`
	ModelPath       string              `json:"model_path"`
	PreviousVersion int                 `json:"previous_version,omitempty"`
}

// ModelRejected is the payload of a model.rejected event.
type ModelRejected struct {
	Source           string              `json:"source"`
	CandidateMetrics models.ModelMetrics `json:"candidate_metrics"`
	CurrentVersion   int                 `json:"current_version"`
	CurrentMAE       float64             `json:"current_mae"`
}

func (t *Trainer) installed(ctx context.Context, vendorID string, res database.InstallResult) {
	mv := res.Installed
	payload := ModelInstalled{
		Version:   mv.Version,
		Source:    mv.Source,
		Metrics:   mv.Metrics,
		Samples:   mv.Samples,
		ModelPath: mv.Locator,
	}
	if res.Previous != nil {
		payload.PreviousVersion = res.Previous.Version
	}
	metrics.ModelMAE.WithLabelValues(vendorID).Set(mv.Metrics.MAE)
	t.emit(ctx, eventprocessor.EventModelInstalled, vendorID, payload)
}

// TrainVendor trains a baseline model on the vendor's sales history and
// installs it as the next version. It returns (nil, nil) when fewer than
// training.min_sales_records usable rows exist.
func (t *Trainer) TrainVendor(ctx context.Context, vendorID uuid.UUID) (result *TrainResult, err error) {
	defer func() { metrics.RecordTraining(SourceSales, result != nil, err) }()
	logger := t.logger.With().Str("vendor_id", vendorID.String()).Str("kind", SourceSales).Logger()

	records, err := t.store.SalesForVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("load sales for vendor %s: %w", vendorID, err)
	}
	d := salesDataset(records)
	if d.len() < t.cfg.MinSalesRecords {
		logger.Info().Int("samples", d.len()).Int("required", t.cfg.MinSalesRecords).Msg("Insufficient sales data for training")
		return nil, nil
	}

	c, err := t.fit(d, SourceSales, SalesFeatureNames)
	if err != nil {
		return nil, fmt.Errorf("train vendor %s: %w", vendorID, err)
	}

	vendor := vendorID.String()
	res, err := t.store.InstallModelVersion(ctx, t.installRequest(ctx, vendor, c, func(*models.ModelVersion) bool { return true }))
	if err != nil {
		return nil, fmt.Errorf("install model for vendor %s: %w", vendorID, err)
	}
	t.installed(ctx, vendor, res)

	logger.Info().
		Int("version", res.Installed.Version).
		Float64("mae", c.metrics.MAE).
		Float64("r2", c.metrics.R2).
		Int("train_samples", c.trainN).
		Int("test_samples", c.testN).
		Msg("Vendor model trained")

	return &TrainResult{
		VendorID:        vendor,
		Version:         res.Installed.Version,
		ModelPath:       res.Installed.Locator,
		Metrics:         c.metrics,
		TrainingSamples: c.trainN,
		TestSamples:     c.testN,
	}, nil
}

// RetrainWithFeedback fits a candidate on the vendor's feedback and
// installs it unless it is worse than the current model. It returns
// (nil, nil) when fewer than training.min_feedback_records examples have a
// positive actual quantity.
func (t *Trainer) RetrainWithFeedback(ctx context.Context, vendorID uuid.UUID) (result *RetrainResult, err error) {
	defer func() { metrics.RecordTraining(SourceFeedback, result != nil, err) }()
	logger := t.logger.With().Str("vendor_id", vendorID.String()).Str("kind", SourceFeedback).Logger()

	examples, err := t.store.FeedbackExamples(ctx, models.FeedbackQuery{
		VendorID: &vendorID,
		Since:    t.now().UTC().AddDate(0, 0, -t.cfg.FeedbackDaysBack),
	})
	if err != nil {
		return nil, fmt.Errorf("load feedback for vendor %s: %w", vendorID, err)
	}
	d := feedbackDataset(examples)
	if d.len() < t.cfg.MinFeedbackRecords {
		logger.Info().
			Int("examples", len(examples)).
			Int("usable", d.len()).
			Int("required", t.cfg.MinFeedbackRecords).
			Msg("Insufficient feedback for retraining")
		return nil, nil
	}

	c, err := t.fit(d, SourceFeedback, FeedbackFeatureNames)
	if err != nil {
		return nil, fmt.Errorf("retrain vendor %s: %w", vendorID, err)
	}

	vendor := vendorID.String()
	res, err := t.store.InstallModelVersion(ctx, t.installRequest(ctx, vendor, c, func(current *models.ModelVersion) bool {
		return ShouldReplace(c.metrics.MAE, current, t.cfg.ReplaceOnTie)
	}))
	if err != nil {
		return nil, fmt.Errorf("install model for vendor %s: %w", vendorID, err)
	}

	result = &RetrainResult{
		VendorID:            vendor,
		FeedbackRecordsUsed: d.len(),
		Metrics:             c.metrics,
		ModelReplaced:       res.Installed != nil,
	}
	if res.Previous != nil {
		result.PreviousVersion = res.Previous.Version
		mae := res.Previous.Metrics.MAE
		result.PreviousMAE = &mae
	}
	metrics.RecordReplacement(result.ModelReplaced)

	if !result.ModelReplaced {
		logger.Info().
			Float64("candidate_mae", c.metrics.MAE).
			Float64("current_mae", res.Previous.Metrics.MAE).
			Int("current_version", res.Previous.Version).
			Msg("Keeping current model, candidate is worse")
		t.emit(ctx, eventprocessor.EventModelRejected, vendor, ModelRejected{
			Source:           SourceFeedback,
			CandidateMetrics: c.metrics,
			CurrentVersion:   res.Previous.Version,
			CurrentMAE:       res.Previous.Metrics.MAE,
		})
		return result, nil
	}

	result.Version = res.Installed.Version
	result.ModelPath = res.Installed.Locator
	t.installed(ctx, vendor, res)
	logger.Info().
		Int("version", result.Version).
		Float64("mae", c.metrics.MAE).
		Int("feedback_records", d.len()).
		Msg("Retrained model installed")
	return result, nil
}
