// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package engine

import "errors"

// ErrNotInitialized is returned by every query operation until retrain has
// completed successfully at least once.
var ErrNotInitialized = errors.New("engine: not initialized, retrain has not completed yet")

// ErrUnknownUser is returned when a caller-supplied user ID is absent from
// the currently published Engine State.
var ErrUnknownUser = errors.New("engine: unknown user")

// ErrUnknownItem is returned when a caller-supplied item ID is absent from
// the currently published Engine State.
var ErrUnknownItem = errors.New("engine: unknown item")

// ErrInternal wraps failures that are not attributable to caller input:
// provider failures during retrain, or any other unexpected condition.
// Internal errors never leak details past the boundary returned from
// retrain/query operations below this package.
var ErrInternal = errors.New("engine: internal error")

// ErrRetrainInProgress is returned by Retrain when another retrain is
// already running, so callers (e.g. a retrain scheduler) can distinguish a
// benign skip from an actual provider/training failure.
var ErrRetrainInProgress = errors.New("engine: retrain already in progress")
