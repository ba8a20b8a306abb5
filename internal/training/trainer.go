// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/storage"
)

// ErrNoModel is returned when a vendor has no installed model.
var ErrNoModel = errors.New("no trained model")

// Training sources recorded in the model index.
const (
	SourceSales    = "sales"
	SourceFeedback = "feedback"
)

// Store is the persistence the trainer needs.
type Store interface {
	SalesForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.SalesRecord, error)
	FeedbackExamples(ctx context.Context, q models.FeedbackQuery) ([]models.FeedbackExample, error)
	VendorsWithFeedback(ctx context.Context) ([]uuid.UUID, error)
	LatestModelVersion(ctx context.Context, vendorID string) (*models.ModelVersion, error)
	InstallModelVersion(ctx context.Context, req database.InstallRequest) (database.InstallResult, error)
}

// Events receives model lifecycle notifications. Delivery is best effort.
type Events interface {
	Emit(ctx context.Context, eventType, vendorID string, payload any)
}

// TrainResult reports a sales-based training run.
type TrainResult struct {
	VendorID        string              `json:"vendor_id"`
	Version         int                 `json:"version"`
	ModelPath       string              `json:"model_path"`
	Metrics         models.ModelMetrics `json:"metrics"`
	TrainingSamples int                 `json:"training_samples"`
	TestSamples     int                 `json:"test_samples"`
}

// RetrainResult reports a feedback-based retrain. Version and ModelPath
// are set only when the candidate was installed.
type RetrainResult struct {
	VendorID            string              `json:"vendor_id"`
	FeedbackRecordsUsed int                 `json:"feedback_records_used"`
	Metrics             models.ModelMetrics `json:"metrics"`
	ModelReplaced       bool                `json:"model_replaced"`
	Version             int                 `json:"version,omitempty"`
	ModelPath           string              `json:"model_path,omitempty"`
	PreviousVersion     int                 `json:"previous_version,omitempty"`
	PreviousMAE         *float64            `json:"previous_mae,omitempty"`
}

// Trainer trains and installs vendor models. It is safe for concurrent
// use; installs for one vendor are serialized by the database transaction.
type Trainer struct {
	store     Store
	artifacts *storage.Store
	events    Events
	cfg       config.TrainingConfig
	limiter   *rate.Limiter
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTrainer creates a Trainer. events may be nil.
func NewTrainer(store Store, artifacts *storage.Store, events Events, cfg config.TrainingConfig, logger zerolog.Logger) *Trainer {
	limit := rate.Inf
	if cfg.VendorRatePerSecond > 0 {
		limit = rate.Limit(cfg.VendorRatePerSecond)
	}
	return &Trainer{
		store:     store,
		artifacts: artifacts,
		events:    events,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger.With().Str("component", "training").Logger(),
		now:       time.Now,
	}
}

func (t *Trainer) emit(ctx context.Context, eventType, vendorID string, payload any) {
	if t.events != nil {
		t.events.Emit(ctx, eventType, vendorID, payload)
	}
}
