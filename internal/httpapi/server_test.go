// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seijikun/funkrec/internal/dataprovider/memory"
	"github.com/seijikun/funkrec/internal/engine"
)

func newTestServer(t *testing.T, train bool) *Server {
	t.Helper()
	provider := memory.New([]memory.Triple{
		{ItemID: 1, UserID: 10, Rating: 5},
		{ItemID: 1, UserID: 11, Rating: 4},
		{ItemID: 2, UserID: 10, Rating: 3},
		{ItemID: 2, UserID: 11, Rating: 2},
	})
	e, err := engine.New(engine.DefaultConfig(), provider, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	if train {
		if err := e.Retrain(); err != nil {
			t.Fatalf("Retrain() error = %v", err)
		}
	}
	return NewServer(e, zerolog.Nop())
}

func TestHandleRecommend_ReturnsSortedPredictions(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/users/10/recommend", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	var out []struct {
		ItemID int64   `json:"item_id"`
		Rating float64 `json:"rating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Rating < out[1].Rating {
		t.Errorf("predictions not sorted by descending rating: %+v", out)
	}
}

func TestHandleRecommend_UnknownUserReturns404(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/users/999/recommend", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleRecommend_BeforeRetrainReturns500(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/users/10/recommend", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHandleSimilarUsers_DefaultCount(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/users/10/similar", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleSimilarItems_InvalidIDReturns400(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/items/not-a-number/similar", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
