// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package engine

import (
	"gonum.org/v1/gonum/mat"

	"github.com/seijikun/funkrec/internal/engine/baseline"
	"github.com/seijikun/funkrec/internal/engine/ratings"
	"github.com/seijikun/funkrec/internal/engine/spatial"
)

// state is the full, immutable snapshot a single query is answered against:
// the rating container it was trained from, its baseline statistics, the
// trained feature matrices, the spatial indices built from them, and the
// approximation error reached during training. It is produced in full by
// retrain and published atomically; once built it is never mutated.
type state struct {
	ratings *ratings.Container
	stats   baseline.Stats

	itemFeatures *mat.Dense // items x F
	userFeatures *mat.Dense // F x users

	itemIndex *spatial.Index
	userIndex *spatial.Index

	approximationError float64
	features           int
}

// userVector returns the F-length feature vector for the given dense user
// column, read out of userFeatures (shape F x users).
func (s *state) userVector(col int) []float64 {
	v := make([]float64, s.features)
	for f := 0; f < s.features; f++ {
		v[f] = s.userFeatures.At(f, col)
	}
	return v
}

// itemVector returns the F-length feature vector for the given dense item
// row, read out of itemFeatures (shape items x F).
func (s *state) itemVector(row int) []float64 {
	v := make([]float64, s.features)
	for f := 0; f < s.features; f++ {
		v[f] = s.itemFeatures.At(row, f)
	}
	return v
}
