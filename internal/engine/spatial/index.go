// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package spatial implements a k-d tree over F-dimensional feature vectors,
// used to answer "k nearest neighbors" queries for the similar-users and
// similar-items endpoints. Leaves carry the external ID of the item/user the
// point was built from.
//
// No k-d tree implementation in the reference corpus could be grounded
// against a verified API surface, so this tree is hand-written in the style
// of the neighbor-list / bounded-result patterns used by the source
// collaborative-filtering algorithms (sorted slice, truncate to k).
package spatial

import (
	"math"
	"sort"
)

// Neighbor is one result of a nearest-neighbor query: the external ID the
// point was built from, and its squared Euclidean distance from the query
// point.
type Neighbor struct {
	ID     int64
	DistSq float64
}

type node struct {
	point       []float64
	id          int64
	axis        int
	left, right *node
}

// Index is an immutable k-d tree over fixed-dimension points. A zero-value
// Index (or nil) has no points and answers every query with an empty
// result set; per the data model, a tree only exists once it has been built
// from at least one point.
type Index struct {
	root *node
	dim  int
	size int
}

// Build constructs a k-d tree from parallel ids/points slices. It panics if
// the slices have different lengths or points have inconsistent
// dimensionality. Build returns nil if there are no points, matching the
// invariant that a tree exists if and only if the source matrix has at
// least one row/column.
func Build(ids []int64, points [][]float64) *Index {
	if len(ids) != len(points) {
		panic("spatial: ids and points length mismatch")
	}
	if len(points) == 0 {
		return nil
	}
	dim := len(points[0])

	items := make([]*node, len(points))
	for i, p := range points {
		if len(p) != dim {
			panic("spatial: inconsistent point dimensionality")
		}
		items[i] = &node{point: p, id: ids[i]}
	}

	idx := &Index{dim: dim, size: len(items)}
	idx.root = build(items, 0, dim)
	return idx
}

// Len returns the number of points in the tree.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

func build(items []*node, depth, dim int) *node {
	if len(items) == 0 {
		return nil
	}
	axis := depth % dim
	sort.Slice(items, func(i, j int) bool { return items[i].point[axis] < items[j].point[axis] })

	mid := len(items) / 2
	n := items[mid]
	n.axis = axis
	n.left = build(items[:mid], depth+1, dim)
	n.right = build(items[mid+1:], depth+1, dim)
	return n
}

// NearestK returns up to k points nearest to query, ordered by ascending
// squared Euclidean distance, with equal distances ordered by ID ascending.
// When several points tie at the k-th distance, which of them are kept
// depends on the tree traversal, not on their IDs. If the tree has fewer
// than k points, all of them are returned.
func (idx *Index) NearestK(query []float64, k int) []Neighbor {
	if idx == nil || idx.root == nil || k <= 0 {
		return nil
	}

	best := &bounded{k: k}
	searchNearest(idx.root, query, best)

	results := make([]Neighbor, len(best.items))
	copy(results, best.items)
	sort.Slice(results, func(i, j int) bool {
		if results[i].DistSq != results[j].DistSq {
			return results[i].DistSq < results[j].DistSq
		}
		return results[i].ID < results[j].ID
	})
	return results
}

// bounded keeps the k smallest-distance neighbors seen so far.
type bounded struct {
	k     int
	items []Neighbor
}

func (b *bounded) worst() float64 {
	if len(b.items) < b.k {
		return math.MaxFloat64
	}
	w := b.items[0].DistSq
	for _, it := range b.items[1:] {
		if it.DistSq > w {
			w = it.DistSq
		}
	}
	return w
}

func (b *bounded) add(n Neighbor) {
	if len(b.items) < b.k {
		b.items = append(b.items, n)
		return
	}
	worstIdx, worstDist := 0, b.items[0].DistSq
	for i, it := range b.items[1:] {
		if it.DistSq > worstDist {
			worstIdx, worstDist = i+1, it.DistSq
		}
	}
	if n.DistSq < worstDist {
		b.items[worstIdx] = n
	}
}

func squaredDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func searchNearest(n *node, query []float64, best *bounded) {
	if n == nil {
		return
	}

	best.add(Neighbor{ID: n.id, DistSq: squaredDist(query, n.point)})

	diff := query[n.axis] - n.point[n.axis]
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}

	searchNearest(near, query, best)
	// Only descend into the far side if it could still contain a point
	// closer than the current worst kept distance.
	if diff*diff < best.worst() {
		searchNearest(far, query, best)
	}
}
