// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package engine implements the single-writer/many-readers recommendation
// engine: it owns a rating data provider and one mutable slot holding the
// current trained State. Queries take a brief read lock against the slot
// and run entirely against whichever State they observed; retrain builds an
// entirely new State off to the side and swaps it in under a brief write
// lock, never blocking in-flight queries for the duration of training.
package engine

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/seijikun/funkrec/internal/dataprovider"
	"github.com/seijikun/funkrec/internal/engine/baseline"
	"github.com/seijikun/funkrec/internal/engine/funksvd"
	"github.com/seijikun/funkrec/internal/engine/ratings"
	"github.com/seijikun/funkrec/internal/engine/spatial"
)

// ItemPrediction is one entry of predict_user_ratings's result.
type ItemPrediction struct {
	ItemID int64
	Rating float64
}

// SimilarUser is one entry of find_k_similar_users's result.
type SimilarUser struct {
	UserID     int64
	Similarity float64
}

// SimilarItem is one entry of find_k_similar_items's result.
type SimilarItem struct {
	ItemID     int64
	Similarity float64
}

// Engine owns a Provider and the single current Engine State. It is safe
// for concurrent use: any number of queries may run concurrently with each
// other and with a single in-progress retrain.
type Engine struct {
	cfg      Config
	provider dataprovider.Provider
	logger   zerolog.Logger

	stateMu sync.RWMutex
	current *state

	// trainMu ensures only one retrain runs at a time; TryLock lets a
	// caller detect an in-progress retrain without blocking on it, mirroring
	// the source's "serialize or drop, but never run two in parallel"
	// requirement.
	trainMu      sync.Mutex
	modelVersion int64

	lastTrainedAt atomic.Value // time.Time
}

// New constructs an Engine. The returned Engine has no published State
// until retrain succeeds at least once.
func New(cfg Config, provider dataprovider.Provider, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	e := &Engine{cfg: cfg, provider: provider, logger: logger}
	e.lastTrainedAt.Store(time.Time{})
	return e, nil
}

// ModelVersion reports how many successful retrains have published a new
// State.
func (e *Engine) ModelVersion() int64 { return atomic.LoadInt64(&e.modelVersion) }

// ApproximationError reports the mean absolute reconstruction error reached
// by the most recent successful retrain, or 0 before any retrain completes.
func (e *Engine) ApproximationError() float64 {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.current == nil {
		return 0
	}
	return e.current.approximationError
}

// LastTrainedAt reports when the last successful retrain completed, or the
// zero time if none has.
func (e *Engine) LastTrainedAt() time.Time {
	return e.lastTrainedAt.Load().(time.Time)
}

// Retrain pulls a fresh rating container from the provider, computes
// baseline statistics, trains feature matrices, builds spatial indices, and
// atomically publishes the result as the new Engine State.
//
// If a retrain is already in progress, Retrain returns immediately with
// ErrRetrainInProgress rather than queueing behind it or running
// concurrently - callers that schedule retrains on a timer should skip a
// tick rather than pile up retrains.
func (e *Engine) Retrain() error {
	if !e.trainMu.TryLock() {
		return ErrRetrainInProgress
	}
	defer e.trainMu.Unlock()

	e.logger.Info().Msg("starting retrain")

	container, err := e.provider.Get()
	if err != nil {
		e.logger.Error().Err(err).Msg("retrain aborted: provider failed")
		return fmt.Errorf("%w: provider failed: %v", ErrInternal, err)
	}

	stats := baseline.Compute(container, e.cfg.BaselineK)
	result := funksvd.Train(container, stats, e.cfg.Trainer)

	newState := &state{
		ratings:            container,
		stats:              stats,
		itemFeatures:       result.ItemFeatures,
		userFeatures:       result.UserFeatures,
		approximationError: result.ApproximationError,
		features:           e.cfg.Trainer.Features,
		itemIndex:          buildItemIndex(container, result.ItemFeatures, e.cfg.Trainer.Features),
		userIndex:          buildUserIndex(container, result.UserFeatures, e.cfg.Trainer.Features),
	}

	e.stateMu.Lock()
	e.current = newState
	e.stateMu.Unlock()

	atomic.AddInt64(&e.modelVersion, 1)
	e.lastTrainedAt.Store(time.Now())

	e.logger.Info().
		Float64("approximation_error", newState.approximationError).
		Int("items", container.NumItems()).
		Int("users", container.NumUsers()).
		Msg("retrain finished, published new state")
	return nil
}

// buildItemIndex builds the item k-d tree: one point per item row, payload
// is the external item ID. It returns nil if there are no items, matching
// the invariant that a tree exists only when its source matrix has rows.
func buildItemIndex(c *ratings.Container, itemFeatures *mat.Dense, features int) *spatial.Index {
	n := c.NumItems()
	if n == 0 {
		return nil
	}
	ids := make([]int64, n)
	points := make([][]float64, n)
	for row := 0; row < n; row++ {
		id, _ := c.RowToItemID(row)
		ids[row] = id
		vec := make([]float64, features)
		for f := 0; f < features; f++ {
			vec[f] = itemFeatures.At(row, f)
		}
		points[row] = vec
	}
	return spatial.Build(ids, points)
}

// buildUserIndex is the user-tree analogue of buildItemIndex: one point per
// user column, payload is the external user ID.
func buildUserIndex(c *ratings.Container, userFeatures *mat.Dense, features int) *spatial.Index {
	n := c.NumUsers()
	if n == 0 {
		return nil
	}
	ids := make([]int64, n)
	points := make([][]float64, n)
	for col := 0; col < n; col++ {
		id, _ := c.ColumnToUserID(col)
		ids[col] = id
		vec := make([]float64, features)
		for f := 0; f < features; f++ {
			vec[f] = userFeatures.At(f, col)
		}
		points[col] = vec
	}
	return spatial.Build(ids, points)
}

// PredictUserRatings predicts a rating for every known item for the given
// user, sanitized by the configured sanitizer, and returns them sorted
// descending by predicted rating. Ties are broken by ascending item ID for
// a deterministic, documented order.
func (e *Engine) PredictUserRatings(userID int64, filter func(itemID int64, rating float64) bool) ([]ItemPrediction, error) {
	s, err := e.acquire()
	if err != nil {
		return nil, err
	}

	userCol, ok := s.ratings.UserIDToColumn(userID)
	if !ok {
		return nil, ErrUnknownUser
	}

	sanitizer := e.cfg.Trainer.Sanitizer
	if sanitizer == nil {
		sanitizer = funksvd.ClampSanitizer
	}

	userVec := s.userVector(userCol)
	userOffset := s.stats.UserOffset[userCol]

	out := make([]ItemPrediction, 0, s.ratings.NumItems())
	for row := 0; row < s.ratings.NumItems(); row++ {
		itemID, _ := s.ratings.RowToItemID(row)

		var dot float64
		itemVec := s.itemVector(row)
		for f := range itemVec {
			dot += itemVec[f] * userVec[f]
		}
		rating := sanitizer(s.stats.ItemMean[row] + userOffset + dot)

		if filter != nil && !filter(itemID, rating) {
			continue
		}
		out = append(out, ItemPrediction{ItemID: itemID, Rating: rating})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

// FindKSimilarUsers returns up to k users nearest to userID in feature
// space, excluding userID itself, ordered by descending similarity.
// Similarity is 1/distance using squared Euclidean distance. The query user
// is excluded by ID; any other user whose feature vector is identical to the
// query's (distance 0) is returned with a similarity of +Inf.
func (e *Engine) FindKSimilarUsers(userID int64, k int) ([]SimilarUser, error) {
	s, err := e.acquire()
	if err != nil {
		return nil, err
	}

	userCol, ok := s.ratings.UserIDToColumn(userID)
	if !ok {
		return nil, ErrUnknownUser
	}

	query := s.userVector(userCol)
	neighbors := s.userIndex.NearestK(query, k+1)

	out := make([]SimilarUser, 0, k)
	for _, n := range neighbors {
		if n.ID == userID {
			continue
		}
		out = append(out, SimilarUser{UserID: n.ID, Similarity: similarityFromDistSq(n.DistSq)})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// FindKSimilarItems returns up to k items nearest to itemID in feature
// space, excluding itemID itself, ordered by descending similarity.
func (e *Engine) FindKSimilarItems(itemID int64, k int) ([]SimilarItem, error) {
	s, err := e.acquire()
	if err != nil {
		return nil, err
	}

	itemRow, ok := s.ratings.ItemIDToRow(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}

	query := s.itemVector(itemRow)
	neighbors := s.itemIndex.NearestK(query, k+1)

	out := make([]SimilarItem, 0, k)
	for _, n := range neighbors {
		if n.ID == itemID {
			continue
		}
		out = append(out, SimilarItem{ItemID: n.ID, Similarity: similarityFromDistSq(n.DistSq)})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// similarityFromDistSq converts a squared-Euclidean distance to a
// similarity score. A distance of zero (an identical feature vector) maps to
// +Inf rather than a clamped finite value.
func similarityFromDistSq(distSq float64) float64 {
	if distSq == 0 {
		return math.Inf(1)
	}
	return 1 / distSq
}

// acquire takes a brief read lock on the state slot and returns the
// currently published State, or ErrNotInitialized if retrain has never
// completed successfully.
func (e *Engine) acquire() (*state, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.current == nil {
		return nil, ErrNotInitialized
	}
	return e.current, nil
}
