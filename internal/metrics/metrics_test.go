// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "sales", "boom"))
	RecordDBQuery("SELECT", "sales", 5*time.Millisecond, nil)
	RecordDBQuery("SELECT", "sales", 5*time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "sales", "boom"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}

	long := errors.New(strings.Repeat("x", 80))
	RecordDBQuery("INSERT", "recommendations", time.Millisecond, long)
	if v := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "recommendations", strings.Repeat("x", 50))); v < 1 {
		t.Errorf("truncated error label count = %v, want >= 1", v)
	}
}

func TestRecordRecommendation(t *testing.T) {
	model := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("model"))
	fallback := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("fallback"))

	RecordRecommendation(false)
	RecordRecommendation(true)
	RecordRecommendation(true)

	if d := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("model")) - model; d != 1 {
		t.Errorf("model delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("fallback")) - fallback; d != 2 {
		t.Errorf("fallback delta = %v, want 2", d)
	}
}

func TestRecordTraining(t *testing.T) {
	tests := []struct {
		name     string
		produced bool
		err      error
		outcome  string
	}{
		{"trained", true, nil, "trained"},
		{"skipped", false, nil, "skipped"},
		{"failed", false, errors.New("disk full"), "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ModelTrainingRuns.WithLabelValues("feedback", tt.outcome)
			before := testutil.ToFloat64(c)
			RecordTraining("feedback", tt.produced, tt.err)
			if d := testutil.ToFloat64(c) - before; d != 1 {
				t.Errorf("%s delta = %v, want 1", tt.outcome, d)
			}
		})
	}
}

func TestRecordReplacement(t *testing.T) {
	installed := testutil.ToFloat64(ModelReplacements.WithLabelValues("installed"))
	rejected := testutil.ToFloat64(ModelReplacements.WithLabelValues("rejected"))

	RecordReplacement(true)
	RecordReplacement(false)

	if d := testutil.ToFloat64(ModelReplacements.WithLabelValues("installed")) - installed; d != 1 {
		t.Errorf("installed delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(ModelReplacements.WithLabelValues("rejected")) - rejected; d != 1 {
		t.Errorf("rejected delta = %v, want 1", d)
	}
}

func TestRecordEventPublish(t *testing.T) {
	c := EventsPublished.WithLabelValues("stallcast.model.installed", "error")
	before := testutil.ToFloat64(c)
	RecordEventPublish("stallcast.model.installed", errors.New("closed"))
	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("error delta = %v, want 1", d)
	}
}

func TestRetrainDurationObserved(t *testing.T) {
	RetrainDuration.Observe(2.5)

	var m dto.Metric
	if err := RetrainDuration.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.GetHistogram().GetSampleCount() < 1 {
		t.Errorf("sample count = %d, want >= 1", m.GetHistogram().GetSampleCount())
	}
	if m.GetHistogram().GetSampleSum() < 2.5 {
		t.Errorf("sample sum = %v, want >= 2.5", m.GetHistogram().GetSampleSum())
	}
}
