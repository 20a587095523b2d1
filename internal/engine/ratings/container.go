// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package ratings implements the dense, sorted rating container that the
// FunkSVD trainer and baseline statistics operate on. A Container is built
// once per retrain from an unordered stream of (item_id, user_id, rating)
// triples and is immutable for the rest of its lifetime.
package ratings

// Rating is a single observation resolved to dense matrix coordinates.
type Rating struct {
	ItemIdx int
	UserIdx int
	Value   float64
}

// Container is an immutable, densely-indexed view of a rating set. Item and
// user IDs are mapped to contiguous zero-based indices so the trainer can
// address feature matrices directly instead of hashing on every access.
type Container struct {
	ratings []Rating

	itemIDs []int64
	userIDs []int64

	itemIDToRow   map[int64]int
	rowToItemID   map[int]int64
	userIDToColumn map[int64]int
	columnToUserID map[int]int64
}

// Ratings returns the flat, sorted list of ratings. Callers must not mutate
// the returned slice.
func (c *Container) Ratings() []Rating { return c.ratings }

// Len returns the number of ratings in the container.
func (c *Container) Len() int { return len(c.ratings) }

// NumItems returns the number of distinct items.
func (c *Container) NumItems() int { return len(c.itemIDs) }

// NumUsers returns the number of distinct users.
func (c *Container) NumUsers() int { return len(c.userIDs) }

// ItemIDs returns the ascending list of external item IDs. Index i in this
// slice corresponds to dense row i.
func (c *Container) ItemIDs() []int64 { return c.itemIDs }

// UserIDs returns the ascending list of external user IDs. Index i in this
// slice corresponds to dense column i.
func (c *Container) UserIDs() []int64 { return c.userIDs }

// ItemIDToRow resolves an external item ID to its dense row index. The
// second return value is false if the ID is unknown.
func (c *Container) ItemIDToRow(id int64) (int, bool) {
	idx, ok := c.itemIDToRow[id]
	return idx, ok
}

// RowToItemID resolves a dense row index back to its external item ID.
func (c *Container) RowToItemID(row int) (int64, bool) {
	id, ok := c.rowToItemID[row]
	return id, ok
}

// UserIDToColumn resolves an external user ID to its dense column index.
func (c *Container) UserIDToColumn(id int64) (int, bool) {
	idx, ok := c.userIDToColumn[id]
	return idx, ok
}

// ColumnToUserID resolves a dense column index back to its external user ID.
func (c *Container) ColumnToUserID(column int) (int64, bool) {
	id, ok := c.columnToUserID[column]
	return id, ok
}
