// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package ratings

import "testing"

func TestBuilder_Build_SortsIDsAscending(t *testing.T) {
	b := NewBuilder()
	b.Add(30, 200, 4.0)
	b.Add(10, 100, 5.0)
	b.Add(20, 100, 3.0)
	b.Add(10, 200, 2.0)

	c := b.Build()

	wantItems := []int64{10, 20, 30}
	if len(c.ItemIDs()) != len(wantItems) {
		t.Fatalf("NumItems() = %d, want %d", len(c.ItemIDs()), len(wantItems))
	}
	for i, id := range wantItems {
		if c.ItemIDs()[i] != id {
			t.Errorf("ItemIDs()[%d] = %d, want %d", i, c.ItemIDs()[i], id)
		}
	}

	wantUsers := []int64{100, 200}
	if len(c.UserIDs()) != len(wantUsers) {
		t.Fatalf("NumUsers() = %d, want %d", len(c.UserIDs()), len(wantUsers))
	}
	for i, id := range wantUsers {
		if c.UserIDs()[i] != id {
			t.Errorf("UserIDs()[%d] = %d, want %d", i, c.UserIDs()[i], id)
		}
	}
}

func TestBuilder_Build_RatingsSortedByItemThenUser(t *testing.T) {
	b := NewBuilder()
	b.Add(2, 20, 1.0)
	b.Add(1, 20, 2.0)
	b.Add(1, 10, 3.0)
	b.Add(2, 10, 4.0)

	c := b.Build()

	rs := c.Ratings()
	if len(rs) != 4 {
		t.Fatalf("Len() = %d, want 4", len(rs))
	}
	for i := 1; i < len(rs); i++ {
		prev, cur := rs[i-1], rs[i]
		if cur.ItemIdx < prev.ItemIdx {
			t.Fatalf("ratings not sorted by item_idx at index %d", i)
		}
		if cur.ItemIdx == prev.ItemIdx && cur.UserIdx < prev.UserIdx {
			t.Fatalf("ratings not sorted by user_idx within item at index %d", i)
		}
	}
}

func TestBuilder_Build_IndexMapsAreMutualInverses(t *testing.T) {
	b := NewBuilder()
	b.Add(5, 7, 1.0)
	b.Add(6, 8, 2.0)
	c := b.Build()

	for _, id := range c.ItemIDs() {
		row, ok := c.ItemIDToRow(id)
		if !ok {
			t.Fatalf("ItemIDToRow(%d) missing", id)
		}
		backID, ok := c.RowToItemID(row)
		if !ok || backID != id {
			t.Errorf("RowToItemID(%d) = %d, %v, want %d, true", row, backID, ok, id)
		}
	}

	for _, id := range c.UserIDs() {
		col, ok := c.UserIDToColumn(id)
		if !ok {
			t.Fatalf("UserIDToColumn(%d) missing", id)
		}
		backID, ok := c.ColumnToUserID(col)
		if !ok || backID != id {
			t.Errorf("ColumnToUserID(%d) = %d, %v, want %d, true", col, backID, ok, id)
		}
	}

	if _, ok := c.ItemIDToRow(9999); ok {
		t.Error("ItemIDToRow(9999) should be unknown")
	}
	if _, ok := c.UserIDToColumn(9999); ok {
		t.Error("UserIDToColumn(9999) should be unknown")
	}
}

func TestBuilder_Build_RatingIndicesResolveToOriginalIDs(t *testing.T) {
	b := NewBuilder()
	type triple struct {
		item, user int64
		rating     float64
	}
	input := []triple{
		{100, 9, 5.0},
		{101, 9, 4.0},
		{100, 10, 3.0},
	}
	for _, tr := range input {
		b.Add(tr.item, tr.user, tr.rating)
	}
	c := b.Build()

	for _, r := range c.Ratings() {
		itemID, ok := c.RowToItemID(r.ItemIdx)
		if !ok {
			t.Fatalf("rating references unknown row %d", r.ItemIdx)
		}
		userID, ok := c.ColumnToUserID(r.UserIdx)
		if !ok {
			t.Fatalf("rating references unknown column %d", r.UserIdx)
		}

		found := false
		for _, tr := range input {
			if tr.item == itemID && tr.user == userID && tr.rating == r.Value {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("resolved rating {%d, %d, %v} not present in input", itemID, userID, r.Value)
		}
	}
}

func TestBuilder_Build_EmptyInput(t *testing.T) {
	c := NewBuilder().Build()
	if c.NumItems() != 0 || c.NumUsers() != 0 || c.Len() != 0 {
		t.Fatalf("expected empty container, got items=%d users=%d ratings=%d", c.NumItems(), c.NumUsers(), c.Len())
	}
}
