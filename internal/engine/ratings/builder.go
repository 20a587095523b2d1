// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package ratings

import "sort"

// rawTriple is a buffered (item, user, rating) observation before dense
// indices exist.
type rawTriple struct {
	itemID int64
	userID int64
	value  float64
}

// Builder accumulates (item_id, user_id, rating) triples from a provider and
// resolves them into a Container. A Builder is single-use: call Build once
// and discard it.
type Builder struct {
	triples []rawTriple
	itemSet map[int64]struct{}
	userSet map[int64]struct{}
}

// NewBuilder returns an empty Builder ready to accept ratings.
func NewBuilder() *Builder {
	return &Builder{
		itemSet: make(map[int64]struct{}),
		userSet: make(map[int64]struct{}),
	}
}

// Add records one observation. It may be called any number of times before
// Build.
func (b *Builder) Add(itemID, userID int64, value float64) {
	b.triples = append(b.triples, rawTriple{itemID: itemID, userID: userID, value: value})
	b.itemSet[itemID] = struct{}{}
	b.userSet[userID] = struct{}{}
}

// Len reports how many triples have been added so far.
func (b *Builder) Len() int { return len(b.triples) }

// Build consumes the Builder and produces a Container with dense, sorted
// indices. It sorts the distinct item and user ID sets ascending, builds the
// four bidirectional maps from those sorted lists, resolves every buffered
// triple to dense indices, and sorts the resulting rating list by
// (item_idx, user_idx).
func (b *Builder) Build() *Container {
	itemIDs := make([]int64, 0, len(b.itemSet))
	for id := range b.itemSet {
		itemIDs = append(itemIDs, id)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	userIDs := make([]int64, 0, len(b.userSet))
	for id := range b.userSet {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	itemIDToRow := make(map[int64]int, len(itemIDs))
	rowToItemID := make(map[int]int64, len(itemIDs))
	for row, id := range itemIDs {
		itemIDToRow[id] = row
		rowToItemID[row] = id
	}

	userIDToColumn := make(map[int64]int, len(userIDs))
	columnToUserID := make(map[int]int64, len(userIDs))
	for col, id := range userIDs {
		userIDToColumn[id] = col
		columnToUserID[col] = id
	}

	ratingsOut := make([]Rating, 0, len(b.triples))
	for _, t := range b.triples {
		ratingsOut = append(ratingsOut, Rating{
			ItemIdx: itemIDToRow[t.itemID],
			UserIdx: userIDToColumn[t.userID],
			Value:   t.value,
		})
	}

	sort.Slice(ratingsOut, func(i, j int) bool {
		if ratingsOut[i].ItemIdx != ratingsOut[j].ItemIdx {
			return ratingsOut[i].ItemIdx < ratingsOut[j].ItemIdx
		}
		return ratingsOut[i].UserIdx < ratingsOut[j].UserIdx
	})

	return &Container{
		ratings:        ratingsOut,
		itemIDs:        itemIDs,
		userIDs:        userIDs,
		itemIDToRow:    itemIDToRow,
		rowToItemID:    rowToItemID,
		userIDToColumn: userIDToColumn,
		columnToUserID: columnToUserID,
	}
}
