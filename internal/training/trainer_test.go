// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package training

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/eventprocessor"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/storage"
)

// fakeStore keeps the model index in memory with the same
// compare-then-install contract as the database.
type fakeStore struct {
	mu          sync.Mutex
	sales       map[uuid.UUID][]models.SalesRecord
	feedback    map[uuid.UUID][]models.FeedbackExample
	feedbackErr map[uuid.UUID]error
	versions    map[string][]models.ModelVersion
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sales:       make(map[uuid.UUID][]models.SalesRecord),
		feedback:    make(map[uuid.UUID][]models.FeedbackExample),
		feedbackErr: make(map[uuid.UUID]error),
		versions:    make(map[string][]models.ModelVersion),
	}
}

func (f *fakeStore) SalesForVendor(_ context.Context, vendorID uuid.UUID) ([]models.SalesRecord, error) {
	return f.sales[vendorID], nil
}

func (f *fakeStore) FeedbackExamples(_ context.Context, q models.FeedbackQuery) ([]models.FeedbackExample, error) {
	if err := f.feedbackErr[*q.VendorID]; err != nil {
		return nil, err
	}
	return f.feedback[*q.VendorID], nil
}

func (f *fakeStore) VendorsWithFeedback(context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for id := range f.feedback {
		seen[id] = true
		out = append(out, id)
	}
	for id := range f.feedbackErr {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStore) latest(vendorID string) *models.ModelVersion {
	vs := f.versions[vendorID]
	if len(vs) == 0 {
		return nil
	}
	mv := vs[len(vs)-1]
	return &mv
}

func (f *fakeStore) LatestModelVersion(_ context.Context, vendorID string) (*models.ModelVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest(vendorID), nil
}

func (f *fakeStore) InstallModelVersion(_ context.Context, req database.InstallRequest) (database.InstallResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.latest(req.VendorID)
	if !req.Accept(current) {
		return database.InstallResult{Previous: current}, nil
	}
	next := 1
	if current != nil {
		next = current.Version + 1
	}
	mv, err := req.Persist(next)
	if err != nil {
		return database.InstallResult{}, err
	}
	mv.VendorID = req.VendorID
	mv.Version = next
	if f.insertErr != nil {
		req.Discard(mv)
		return database.InstallResult{}, f.insertErr
	}
	f.versions[req.VendorID] = append(f.versions[req.VendorID], *mv)
	return database.InstallResult{Installed: mv, Previous: current}, nil
}

type fakeEvents struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeEvents) Emit(_ context.Context, eventType, _ string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, eventType)
}

func testConfig(dir string) config.TrainingConfig {
	return config.TrainingConfig{
		ModelDir:            dir,
		MinSalesRecords:     30,
		MinFeedbackRecords:  10,
		FeedbackDaysBack:    365,
		RidgeLambda:         1,
		TestFraction:        0.2,
		ReplaceOnTie:        true,
		VendorRatePerSecond: 0,
	}
}

var trainingNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestTrainer(t *testing.T, store *fakeStore) (*Trainer, *fakeEvents, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	artifacts, err := storage.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	events := &fakeEvents{}
	tr := NewTrainer(store, artifacts, events, testConfig(dir), zerolog.Nop())
	tr.now = func() time.Time { return trainingNow }
	return tr, events, artifacts
}

func ptr[T any](v T) *T { return &v }

// salesHistory returns n daily single-item sales with weekday-driven demand.
func salesHistory(n int) []models.SalesRecord {
	start := trainingNow.AddDate(0, 0, -n)
	out := make([]models.SalesRecord, n)
	for i := range out {
		date := start.AddDate(0, 0, i)
		qty := float64(8 + models.Weekday(date) + i%3)
		out[i] = models.SalesRecord{
			ID:   uuid.New(),
			Date: date,
			LineItems: []models.LineItem{
				{ProductID: "p1", Quantity: qty, UnitPrice: ptr(2.0)},
			},
		}
	}
	return out
}

// feedbackHistory returns n examples whose actual sales track the
// recommended quantity.
func feedbackHistory(n int) []models.FeedbackExample {
	start := trainingNow.AddDate(0, 0, -n)
	out := make([]models.FeedbackExample, n)
	for i := range out {
		recommended := 10 + i%5
		out[i] = models.FeedbackExample{
			RecommendationID:    uuid.New(),
			MarketDate:          start.AddDate(0, 0, i),
			RecommendedQuantity: recommended,
			ActualQuantitySold:  ptr(recommended + i%3 - 1),
			Rating:              ptr(4),
		}
	}
	return out
}

func TestTrainVendor(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	store.sales[vendor] = salesHistory(40)
	tr, events, artifacts := newTestTrainer(t, store)
	ctx := context.Background()

	result, err := tr.TrainVendor(ctx, vendor)
	if err != nil {
		t.Fatalf("TrainVendor() error = %v", err)
	}
	if result == nil {
		t.Fatal("TrainVendor() = nil, want result")
	}
	if result.Version != 1 {
		t.Errorf("Version = %d, want 1", result.Version)
	}
	if result.TrainingSamples != 32 || result.TestSamples != 8 {
		t.Errorf("samples = %d/%d, want 32/8", result.TrainingSamples, result.TestSamples)
	}
	if math.IsNaN(result.Metrics.MAE) || result.Metrics.MAE < 0 {
		t.Errorf("MAE = %v, want finite non-negative", result.Metrics.MAE)
	}
	if _, err := os.Stat(result.ModelPath); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
	if _, err := os.Stat(storage.SidecarPath(result.ModelPath)); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}

	// A bulk retrain always installs the next version.
	again, err := tr.TrainVendor(ctx, vendor)
	if err != nil {
		t.Fatalf("second TrainVendor() error = %v", err)
	}
	if again.Version != 2 {
		t.Errorf("second Version = %d, want 2", again.Version)
	}
	paths, err := artifacts.List(vendor.String())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("artifacts = %d, want 2", len(paths))
	}
	if len(events.types) != 2 || events.types[0] != eventprocessor.EventModelInstalled {
		t.Errorf("events = %v, want two model.installed", events.types)
	}
}

func TestTrainVendor_InsufficientData(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	history := salesHistory(29)
	// Rows without a date or with a non-positive quantity do not count.
	history = append(history,
		models.SalesRecord{LineItems: []models.LineItem{{ProductID: "p1", Quantity: 5}}},
		models.SalesRecord{Date: trainingNow, LineItems: []models.LineItem{{ProductID: "p1", Quantity: 0}}},
	)
	store.sales[vendor] = history
	tr, _, _ := newTestTrainer(t, store)

	result, err := tr.TrainVendor(context.Background(), vendor)
	if err != nil || result != nil {
		t.Errorf("TrainVendor() = %v, %v, want nil, nil", result, err)
	}
	if len(store.versions) != 0 {
		t.Errorf("versions = %v, want none", store.versions)
	}
}

func TestTrainVendor_InstallErrorDiscardsArtifact(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	store.sales[vendor] = salesHistory(40)
	store.insertErr = errors.New("index unavailable")
	tr, _, artifacts := newTestTrainer(t, store)

	if _, err := tr.TrainVendor(context.Background(), vendor); !errors.Is(err, store.insertErr) {
		t.Fatalf("TrainVendor() error = %v, want %v", err, store.insertErr)
	}
	paths, err := artifacts.List(vendor.String())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("artifacts = %v, want none after failed install", paths)
	}
}

func TestRetrainWithFeedback_FirstInstall(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	store.feedback[vendor] = feedbackHistory(20)
	tr, events, _ := newTestTrainer(t, store)

	result, err := tr.RetrainWithFeedback(context.Background(), vendor)
	if err != nil {
		t.Fatalf("RetrainWithFeedback() error = %v", err)
	}
	if result == nil || !result.ModelReplaced {
		t.Fatalf("RetrainWithFeedback() = %+v, want installed", result)
	}
	if result.Version != 1 || result.PreviousMAE != nil {
		t.Errorf("Version = %d PreviousMAE = %v, want 1 and nil", result.Version, result.PreviousMAE)
	}
	if result.FeedbackRecordsUsed != 20 {
		t.Errorf("FeedbackRecordsUsed = %d, want 20", result.FeedbackRecordsUsed)
	}
	if len(events.types) != 1 || events.types[0] != eventprocessor.EventModelInstalled {
		t.Errorf("events = %v, want model.installed", events.types)
	}
}

func TestRetrainWithFeedback_KeepsBetterModel(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	store.feedback[vendor] = feedbackHistory(20)
	store.versions[vendor.String()] = []models.ModelVersion{
		{VendorID: vendor.String(), Version: 3, Source: SourceSales, Metrics: models.ModelMetrics{MAE: 0}, Locator: "/nonexistent"},
	}
	tr, events, artifacts := newTestTrainer(t, store)

	result, err := tr.RetrainWithFeedback(context.Background(), vendor)
	if err != nil {
		t.Fatalf("RetrainWithFeedback() error = %v", err)
	}
	if result == nil {
		t.Fatal("RetrainWithFeedback() = nil, want result")
	}
	if result.ModelReplaced {
		t.Error("ModelReplaced = true, want false")
	}
	if result.PreviousVersion != 3 || result.PreviousMAE == nil || *result.PreviousMAE != 0 {
		t.Errorf("previous = v%d %v, want v3 MAE 0", result.PreviousVersion, result.PreviousMAE)
	}
	if got := store.latest(vendor.String()).Version; got != 3 {
		t.Errorf("latest version = %d, want 3", got)
	}
	paths, err := artifacts.List(vendor.String())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("artifacts = %v, want none for a rejected candidate", paths)
	}
	if len(events.types) != 1 || events.types[0] != eventprocessor.EventModelRejected {
		t.Errorf("events = %v, want model.rejected", events.types)
	}
}

func TestRetrainWithFeedback_InsufficientAfterFiltering(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	examples := feedbackHistory(15)
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			examples[i].ActualQuantitySold = nil
		} else {
			examples[i].ActualQuantitySold = ptr(0)
		}
	}
	store.feedback[vendor] = examples
	tr, _, _ := newTestTrainer(t, store)

	result, err := tr.RetrainWithFeedback(context.Background(), vendor)
	if err != nil || result != nil {
		t.Errorf("RetrainWithFeedback() = %v, %v, want nil, nil", result, err)
	}
}

func TestShouldReplace(t *testing.T) {
	current := &models.ModelVersion{Version: 2, Metrics: models.ModelMetrics{MAE: 1.5}}
	tests := []struct {
		name         string
		candidateMAE float64
		current      *models.ModelVersion
		replaceOnTie bool
		want         bool
	}{
		{name: "no current model", candidateMAE: 9, want: true},
		{name: "better", candidateMAE: 1.2, current: current, want: true},
		{name: "worse", candidateMAE: 1.8, current: current, replaceOnTie: true, want: false},
		{name: "tie replaces", candidateMAE: 1.5, current: current, replaceOnTie: true, want: true},
		{name: "tie keeps when strict", candidateMAE: 1.5, current: current, replaceOnTie: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReplace(tt.candidateMAE, tt.current, tt.replaceOnTie); got != tt.want {
				t.Errorf("ShouldReplace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLatestMetadataAndLoad(t *testing.T) {
	store := newFakeStore()
	vendor := uuid.New()
	store.sales[vendor] = salesHistory(40)
	tr, _, _ := newTestTrainer(t, store)
	ctx := context.Background()

	meta, err := tr.LatestMetadata(ctx, "unknown-vendor")
	if err != nil || !meta.IsZero() {
		t.Errorf("LatestMetadata(unknown) = %+v, %v, want zero, nil", meta, err)
	}
	if _, err := tr.LoadLatest(ctx, "unknown-vendor"); !errors.Is(err, ErrNoModel) {
		t.Errorf("LoadLatest(unknown) error = %v, want ErrNoModel", err)
	}

	result, err := tr.TrainVendor(ctx, vendor)
	if err != nil {
		t.Fatalf("TrainVendor() error = %v", err)
	}

	meta, err = tr.LatestMetadata(ctx, vendor.String())
	if err != nil {
		t.Fatalf("LatestMetadata() error = %v", err)
	}
	if meta.Version != 1 || meta.Source != SourceSales || meta.Metrics != result.Metrics {
		t.Errorf("LatestMetadata() = %+v, want v1 sales with metrics %+v", meta, result.Metrics)
	}
	if len(meta.FeatureNames) != len(SalesFeatureNames) {
		t.Errorf("FeatureNames = %v, want %v", meta.FeatureNames, SalesFeatureNames)
	}

	model, err := tr.LoadLatest(ctx, vendor.String())
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}
	pred, err := model.Predict(map[string]float64{"weekday": 5, "month": 9, "day": 6, "amount": 26})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		t.Errorf("Predict() = %v, want finite", pred)
	}

	if err := os.Remove(storage.SidecarPath(result.ModelPath)); err != nil {
		t.Fatalf("remove sidecar: %v", err)
	}
	meta, err = tr.LatestMetadata(ctx, vendor.String())
	if err != nil || !meta.IsZero() {
		t.Errorf("LatestMetadata(no sidecar) = %+v, %v, want zero, nil", meta, err)
	}
}

func TestRetrainAll(t *testing.T) {
	store := newFakeStore()
	good, sparse, broken := uuid.New(), uuid.New(), uuid.New()
	store.feedback[good] = feedbackHistory(20)
	store.feedback[sparse] = feedbackHistory(4)
	store.feedbackErr[broken] = errors.New("query timeout")
	tr, _, _ := newTestTrainer(t, store)

	report, err := tr.RetrainAll(context.Background())
	if err != nil {
		t.Fatalf("RetrainAll() error = %v", err)
	}
	if report.TotalVendors != 3 || report.Retrained != 1 || report.Skipped != 1 || report.Failed != 1 {
		t.Errorf("report = %d total, %d retrained, %d skipped, %d failed; want 3/1/1/1",
			report.TotalVendors, report.Retrained, report.Skipped, report.Failed)
	}
	if len(report.Details) != 3 {
		t.Fatalf("len(Details) = %d, want 3", len(report.Details))
	}
	byVendor := make(map[string]VendorOutcome)
	for _, d := range report.Details {
		byVendor[d.VendorID] = d
	}
	if got := byVendor[broken.String()]; got.Outcome != OutcomeFailed || got.Error == "" {
		t.Errorf("broken vendor outcome = %+v, want failed with error", got)
	}
	if got := byVendor[good.String()]; got.Outcome != OutcomeRetrained || got.Result == nil {
		t.Errorf("good vendor outcome = %+v, want retrained with result", got)
	}
}

func TestRetrainAll_ContextCancelled(t *testing.T) {
	store := newFakeStore()
	store.feedback[uuid.New()] = feedbackHistory(20)
	tr, _, _ := newTestTrainer(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.RetrainAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RetrainAll() error = %v, want context.Canceled", err)
	}
}
