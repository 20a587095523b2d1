// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package funksvd

import (
	"math"
	"testing"

	"github.com/seijikun/funkrec/internal/engine/baseline"
	"github.com/seijikun/funkrec/internal/engine/ratings"
)

func buildScenario(t *testing.T) *ratings.Container {
	t.Helper()
	b := ratings.NewBuilder()
	b.Add(1, 10, 5)
	b.Add(1, 11, 4)
	b.Add(2, 10, 3)
	b.Add(2, 11, 2)
	return b.Build()
}

func baselineMAE(c *ratings.Container, stats baseline.Stats) float64 {
	var sum float64
	for _, r := range c.Ratings() {
		pred := stats.ItemMean[r.ItemIdx] + stats.UserOffset[r.UserIdx]
		sum += math.Abs(r.Value - pred)
	}
	return sum / float64(c.Len())
}

func TestTrain_ShapesMatchItemsUsersFeatures(t *testing.T) {
	c := buildScenario(t)
	stats := baseline.Compute(c, 25)
	cfg := DefaultConfig()
	cfg.Features = 4

	res := Train(c, stats, cfg)

	ir, ic := res.ItemFeatures.Dims()
	if ir != c.NumItems() || ic != cfg.Features {
		t.Fatalf("ItemFeatures dims = (%d,%d), want (%d,%d)", ir, ic, c.NumItems(), cfg.Features)
	}
	ur, uc := res.UserFeatures.Dims()
	if ur != cfg.Features || uc != c.NumUsers() {
		t.Fatalf("UserFeatures dims = (%d,%d), want (%d,%d)", ur, uc, cfg.Features, c.NumUsers())
	}
}

func TestTrain_ImprovesOverBaseline(t *testing.T) {
	c := buildScenario(t)
	stats := baseline.Compute(c, 25)

	base := baselineMAE(c, stats)
	res := Train(c, stats, DefaultConfig())

	if res.ApproximationError < 0 {
		t.Fatalf("ApproximationError = %v, want >= 0", res.ApproximationError)
	}
	if res.ApproximationError >= base {
		t.Errorf("ApproximationError = %v, want strictly less than baseline MAE %v", res.ApproximationError, base)
	}
}

func TestTrain_IsDeterministic(t *testing.T) {
	c := buildScenario(t)
	stats := baseline.Compute(c, 25)
	cfg := DefaultConfig()
	cfg.Features = 5

	r1 := Train(c, stats, cfg)
	r2 := Train(c, stats, cfg)

	for i := 0; i < c.NumItems(); i++ {
		for f := 0; f < cfg.Features; f++ {
			if r1.ItemFeatures.At(i, f) != r2.ItemFeatures.At(i, f) {
				t.Fatalf("ItemFeatures not deterministic at (%d,%d)", i, f)
			}
		}
	}
}

func TestTrain_ClampSanitizedPredictionsStayInRange(t *testing.T) {
	c := buildScenario(t)
	stats := baseline.Compute(c, 25)
	cfg := DefaultConfig()
	cfg.Sanitizer = ClampSanitizer

	res := Train(c, stats, cfg)

	for _, r := range c.Ratings() {
		var pred float64
		for f := 0; f < cfg.Features; f++ {
			pred += res.ItemFeatures.At(r.ItemIdx, f) * res.UserFeatures.At(f, r.UserIdx)
		}
		pred += stats.ItemMean[r.ItemIdx] + stats.UserOffset[r.UserIdx]
		sanitized := ClampSanitizer(pred)
		if sanitized < 0 || sanitized > 5 {
			t.Errorf("sanitized prediction %v out of [0,5]", sanitized)
		}
	}
}

func TestTrain_EmptyContainerReturnsZeroValue(t *testing.T) {
	c := ratings.NewBuilder().Build()
	stats := baseline.Compute(c, 25)
	res := Train(c, stats, DefaultConfig())
	if res.ItemFeatures != nil || res.UserFeatures != nil {
		t.Error("expected nil feature matrices for empty container")
	}
}
