// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package engine ties together the rating container, baseline statistics,
// FunkSVD trainer and spatial indices into a single recommendation engine.
//
// # Architecture
//
//   - ratings.Container / ratings.Builder - dense, sorted view of a rating
//     set
//   - baseline.Stats - per-item/per-user bias statistics
//   - funksvd.Train - regularized SGD latent-factor trainer
//   - spatial.Index - k-d trees for nearest-neighbor queries
//   - Engine - owns the provider and the published State slot
//
// # Thread Safety
//
// Engine is safe for concurrent use. Retrain builds an entirely new State
// off to the side and only takes the state lock for the pointer-sized
// swap; queries take the same lock in read mode for the duration of one
// lookup and then operate against the State they observed, even if a newer
// one is published midway through.
//
// # Usage
//
//	e, err := engine.New(engine.DefaultConfig(), provider, logger)
//	if err != nil {
//		return err
//	}
//	if err := e.Retrain(); err != nil {
//		return err
//	}
//	preds, err := e.PredictUserRatings(42, nil)
package engine
