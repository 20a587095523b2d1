// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package memory implements an in-memory Provider backed by a fixed slice
// of triples, used for tests and local experimentation.
package memory

import (
	"github.com/seijikun/funkrec/internal/engine/ratings"
)

// Triple is one (item_id, user_id, rating) observation.
type Triple struct {
	ItemID int64
	UserID int64
	Rating float64
}

// Provider serves a fixed, in-memory set of ratings. It is safe for
// concurrent use since its underlying slice is never mutated after
// construction.
type Provider struct {
	triples []Triple
}

// New returns a Provider that will always build its Container from triples.
func New(triples []Triple) *Provider {
	return &Provider{triples: triples}
}

// Get builds a fresh Container from the fixed triple set. It never fails.
func (p *Provider) Get() (*ratings.Container, error) {
	b := ratings.NewBuilder()
	for _, t := range p.triples {
		b.Add(t.ItemID, t.UserID, t.Rating)
	}
	return b.Build(), nil
}
