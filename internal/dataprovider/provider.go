// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package dataprovider defines the narrow capability the recommendation
// engine uses to pull a fresh set of ratings at the start of every retrain,
// plus the concrete adapters that implement it: an in-memory feed for
// tests, a CSV directory feed, and a SQL table feed.
package dataprovider

import "github.com/seijikun/funkrec/internal/engine/ratings"

// Provider produces a fully populated rating Container on demand. The
// engine is independent of the concrete source: it only ever calls Get.
// Implementations may block and may perform I/O; any error is treated as
// fatal by the calling retrain and leaves the engine's previously published
// state untouched.
type Provider interface {
	Get() (*ratings.Container, error)
}
