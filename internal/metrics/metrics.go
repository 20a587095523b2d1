// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package metrics provides Prometheus instrumentation for the
// recommendation engine: retrain duration and outcome, query latency, and
// the published model's approximation error.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetrainDuration records how long each retrain call took, regardless
	// of outcome.
	RetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "funkrec_retrain_duration_seconds",
			Help:    "Duration of Engine.Retrain calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// RetrainTotal counts retrain attempts by outcome ("success",
	// "provider_error", "in_progress").
	RetrainTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funkrec_retrain_total",
			Help: "Total number of retrain attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ApproximationError reports the mean absolute error published by the
	// most recent successful retrain.
	ApproximationError = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "funkrec_approximation_error",
			Help: "Mean absolute reconstruction error of the last published model",
		},
	)

	// ModelVersion reports how many successful retrains have published a
	// new model.
	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "funkrec_model_version",
			Help: "Number of successful retrains since process start",
		},
	)

	// QueryDuration records latency of the three query endpoints.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funkrec_query_duration_seconds",
			Help:    "Duration of engine query operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// QueryErrors counts query failures by operation and error kind.
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funkrec_query_errors_total",
			Help: "Total number of query errors by operation and error kind",
		},
		[]string{"operation", "error_kind"},
	)
)
