// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package httpapi exposes the recommendation engine's three query
// operations over HTTP. It is a thin, non-core collaborator: all it does is
// parse path/query parameters, call the engine, map errors to status codes,
// and serialize the result as JSON.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/seijikun/funkrec/internal/engine"
	"github.com/seijikun/funkrec/internal/metrics"
)

// defaultSimilarCount is applied to /similar routes when ?count= is absent.
const defaultSimilarCount = 5

// Server wires chi routes to an Engine.
type Server struct {
	engine *engine.Engine
	logger zerolog.Logger
	router chi.Router
}

// NewServer builds a Server exposing the three routes specified in
// section 6 of the engine's interface contract:
//
//	GET /users/{user_id}/recommend
//	GET /users/{user_id}/similar?count=K
//	GET /items/{item_id}/similar?count=K
func NewServer(e *engine.Engine, logger zerolog.Logger) *Server {
	s := &Server{engine: e, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/users/{user_id}/recommend", s.handleRecommend)
	r.Get("/users/{user_id}/similar", s.handleSimilarUsers)
	r.Get("/items/{item_id}/similar", s.handleSimilarItems)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds()) }()

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	preds, err := s.engine.PredictUserRatings(userID, nil)
	if err != nil {
		s.writeEngineError(w, "recommend", err)
		return
	}

	type item struct {
		ItemID int64   `json:"item_id"`
		Rating float64 `json:"rating"`
	}
	out := make([]item, len(preds))
	for i, p := range preds {
		out[i] = item{ItemID: p.ItemID, Rating: p.Rating}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSimilarUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues("similar_users").Observe(time.Since(start).Seconds()) }()

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	k := parseCount(r)

	similar, err := s.engine.FindKSimilarUsers(userID, k)
	if err != nil {
		s.writeEngineError(w, "similar_users", err)
		return
	}

	type entry struct {
		UserID     int64   `json:"user_id"`
		Similarity float64 `json:"similarity"`
	}
	out := make([]entry, len(similar))
	for i, su := range similar {
		out[i] = entry{UserID: su.UserID, Similarity: su.Similarity}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues("similar_items").Observe(time.Since(start).Seconds()) }()

	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item_id")
		return
	}
	k := parseCount(r)

	similar, err := s.engine.FindKSimilarItems(itemID, k)
	if err != nil {
		s.writeEngineError(w, "similar_items", err)
		return
	}

	type entry struct {
		ItemID     int64   `json:"item_id"`
		Similarity float64 `json:"similarity"`
	}
	out := make([]entry, len(similar))
	for i, si := range similar {
		out[i] = entry{ItemID: si.ItemID, Similarity: si.Similarity}
	}
	writeJSON(w, http.StatusOK, out)
}

func parseCount(r *http.Request) int {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return defaultSimilarCount
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultSimilarCount
	}
	return n
}

// writeEngineError maps the engine error taxonomy to HTTP status codes.
// Unknown IDs are caller error (404); not-initialized and internal errors
// are server error (500) with an opaque message - no stack-trace-like
// details are ever written to the response body.
func (s *Server) writeEngineError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownUser):
		metrics.QueryErrors.WithLabelValues(operation, "unknown_user").Inc()
		writeError(w, http.StatusNotFound, "unknown user")
	case errors.Is(err, engine.ErrUnknownItem):
		metrics.QueryErrors.WithLabelValues(operation, "unknown_item").Inc()
		writeError(w, http.StatusNotFound, "unknown item")
	case errors.Is(err, engine.ErrNotInitialized):
		metrics.QueryErrors.WithLabelValues(operation, "not_initialized").Inc()
		writeError(w, http.StatusInternalServerError, "engine not initialized")
	default:
		metrics.QueryErrors.WithLabelValues(operation, "internal").Inc()
		s.logger.Error().Err(err).Str("operation", operation).Msg("query failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: message})
}
