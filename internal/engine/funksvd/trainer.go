// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package funksvd implements the regularized-SGD latent-factor trainer
// (FunkSVD) used to learn item and user feature matrices from a rating
// Container and its baseline statistics.
//
// The defining property of this trainer is that it fits one latent feature
// at a time, fully converging it before moving to the next. Each feature
// therefore learns the residual left behind by the features trained before
// it. This is a correctness requirement, not a performance choice:
// parallelizing across features or across the per-rating inner loop changes
// the result.
package funksvd

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/seijikun/funkrec/internal/engine/baseline"
	"github.com/seijikun/funkrec/internal/engine/ratings"
)

// Sanitizer clamps or otherwise adjusts a predicted/residual rating value.
// It is applied once per residual update between features and once per
// served prediction.
type Sanitizer func(float64) float64

// NoopSanitizer returns its input unchanged.
func NoopSanitizer(v float64) float64 { return v }

// ClampSanitizer clamps its input to the closed interval [0, 5].
func ClampSanitizer(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// Config holds the trainer's hyperparameters. Apart from a nil Sanitizer,
// which Train treats as ClampSanitizer, zero-valued fields are not filled in
// automatically; callers should start from DefaultConfig.
type Config struct {
	Features       int
	LearnRate      float64
	Regularization float64
	MinSteps       int
	MaxSteps       int
	MinImprovement float64
	InitialValue   float64
	Sanitizer      Sanitizer
}

// DefaultConfig returns the trainer defaults.
func DefaultConfig() Config {
	return Config{
		Features:       25,
		LearnRate:      0.01,
		Regularization: 0.02,
		MinSteps:       25,
		MaxSteps:       120,
		MinImprovement: 1e-5,
		InitialValue:   0.1,
		Sanitizer:      ClampSanitizer,
	}
}

// Result bundles the matrices produced by a training run plus the final
// mean-absolute-error, published on the Engine State as the approximation
// error.
type Result struct {
	// ItemFeatures has shape (items x F); nil if there are zero items.
	ItemFeatures *mat.Dense
	// UserFeatures has shape (F x users); nil if there are zero users.
	UserFeatures *mat.Dense
	// ApproximationError is the mean absolute error after the last
	// feature converged.
	ApproximationError float64
}

// Train learns Config.Features latent dimensions from c, seeded by the
// baseline statistics in stats. It is deterministic: the same container,
// config and stats always produce bit-identical matrices.
func Train(c *ratings.Container, stats baseline.Stats, cfg Config) Result {
	rs := c.Ratings()
	numItems := c.NumItems()
	numUsers := c.NumUsers()

	if len(rs) == 0 || numItems == 0 || numUsers == 0 || cfg.Features == 0 {
		return Result{}
	}

	sanitizer := cfg.Sanitizer
	if sanitizer == nil {
		sanitizer = ClampSanitizer
	}

	itemFeatures := mat.NewDense(numItems, cfg.Features, nil)
	userFeatures := mat.NewDense(cfg.Features, numUsers, nil)
	for i := 0; i < numItems; i++ {
		for f := 0; f < cfg.Features; f++ {
			itemFeatures.Set(i, f, cfg.InitialValue)
		}
	}
	for f := 0; f < cfg.Features; f++ {
		for u := 0; u < numUsers; u++ {
			userFeatures.Set(f, u, cfg.InitialValue)
		}
	}

	residualCache := make([]float64, len(rs))
	for n, r := range rs {
		residualCache[n] = stats.ItemMean[r.ItemIdx] + stats.UserOffset[r.UserIdx]
	}

	var approxError float64

	for f := 0; f < cfg.Features; f++ {
		errorPrev := evaluateModel(rs, residualCache, itemFeatures, userFeatures, f)

		epochs := 0
		improvement := math.MaxFloat64
		for epochs < cfg.MinSteps || (epochs < cfg.MaxSteps && improvement > cfg.MinImprovement) {
			for n, r := range rs {
				i, u := r.ItemIdx, r.UserIdx

				af := itemFeatures.At(i, f)
				uf := userFeatures.At(f, u)

				pred := residualCache[n] + af*uf
				err := r.Value - pred

				itemFeatures.Set(i, f, af+cfg.LearnRate*(err*uf-cfg.Regularization*af))
				userFeatures.Set(f, u, uf+cfg.LearnRate*(err*af-cfg.Regularization*uf))
			}

			errorCurr := evaluateModel(rs, residualCache, itemFeatures, userFeatures, f)
			improvement = errorPrev - errorCurr
			errorPrev = errorCurr
			epochs++
		}

		approxError = errorPrev

		for n, r := range rs {
			residualCache[n] = sanitizer(residualCache[n] + itemFeatures.At(r.ItemIdx, f)*userFeatures.At(f, r.UserIdx))
		}
	}

	return Result{
		ItemFeatures:       itemFeatures,
		UserFeatures:       userFeatures,
		ApproximationError: approxError,
	}
}

// evaluateModel computes the mean absolute reconstruction error over all
// ratings, using the residual cache plus the in-progress feature f.
func evaluateModel(rs []ratings.Rating, residualCache []float64, itemFeatures, userFeatures *mat.Dense, f int) float64 {
	var sum float64
	for n, r := range rs {
		pred := residualCache[n] + itemFeatures.At(r.ItemIdx, f)*userFeatures.At(f, r.UserIdx)
		sum += math.Abs(r.Value - pred)
	}
	return sum / float64(len(rs))
}
