// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package baseline computes the bias-only statistics used to seed the
// FunkSVD residual cache: a global mean, a Bayesian-smoothed per-item mean,
// and a smoothed per-user rating offset.
package baseline

import "github.com/seijikun/funkrec/internal/engine/ratings"

// Stats holds the derived bias statistics for one Container. It is computed
// once per retrain and is immutable thereafter.
type Stats struct {
	GlobalMean       float64
	GlobalOffsetMean float64

	ItemRatingCount []int
	ItemMean        []float64

	UserRatingCount []int
	UserOffset      []float64
}

// Compute derives Stats from a rating container, regularized toward the
// global mean/offset by the Bayesian prior strength k (the higher k, the
// more weight given to the global value over sparse per-item/user data).
func Compute(c *ratings.Container, k float64) Stats {
	n := c.NumItems()
	m := c.NumUsers()

	stats := Stats{
		ItemRatingCount: make([]int, n),
		ItemMean:        make([]float64, n),
		UserRatingCount: make([]int, m),
		UserOffset:      make([]float64, m),
	}

	rs := c.Ratings()
	if len(rs) == 0 {
		return stats
	}

	var sum float64
	for _, r := range rs {
		sum += r.Value
	}
	stats.GlobalMean = sum / float64(len(rs))

	for _, r := range rs {
		stats.ItemRatingCount[r.ItemIdx]++
		stats.ItemMean[r.ItemIdx] += r.Value
	}
	for i := 0; i < n; i++ {
		stats.ItemMean[i] = (stats.GlobalMean*k + stats.ItemMean[i]) / (k + float64(stats.ItemRatingCount[i]))
	}

	var offsetSum float64
	for _, r := range rs {
		offset := r.Value - stats.ItemMean[r.ItemIdx]
		stats.UserRatingCount[r.UserIdx]++
		stats.UserOffset[r.UserIdx] += offset
		offsetSum += offset
	}
	stats.GlobalOffsetMean = offsetSum / float64(len(rs))

	for u := 0; u < m; u++ {
		stats.UserOffset[u] = (stats.GlobalOffsetMean*k + stats.UserOffset[u]) / (k + float64(stats.UserRatingCount[u]))
	}

	return stats
}
