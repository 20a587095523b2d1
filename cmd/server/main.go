// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Command server starts the recommendation engine's HTTP surface and its
// background retrain scheduler.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/seijikun/funkrec/internal/config"
	"github.com/seijikun/funkrec/internal/dataprovider"
	"github.com/seijikun/funkrec/internal/dataprovider/csvdir"
	"github.com/seijikun/funkrec/internal/dataprovider/sqltable"
	"github.com/seijikun/funkrec/internal/engine"
	"github.com/seijikun/funkrec/internal/httpapi"
	"github.com/seijikun/funkrec/internal/logging"
	"github.com/seijikun/funkrec/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	provider, err := buildProvider(cfg.DataProvider, logger)
	if err != nil {
		return fmt.Errorf("build data provider: %w", err)
	}

	engCfg := engine.DefaultConfig()
	if cfg.Features > 0 {
		engCfg.Trainer.Features = cfg.Features
	}
	if cfg.LearnRate > 0 {
		engCfg.Trainer.LearnRate = cfg.LearnRate
	}
	if cfg.Regularization >= 0 {
		engCfg.Trainer.Regularization = cfg.Regularization
	}

	eng, err := engine.New(engCfg, provider, logger)
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}

	start := time.Now()
	err = eng.Retrain()
	metrics.RetrainDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrainTotal.WithLabelValues("provider_error").Inc()
		logger.Warn().Err(err).Msg("initial retrain failed, engine starts uninitialized")
	} else {
		metrics.RetrainTotal.WithLabelValues("success").Inc()
		metrics.ModelVersion.Set(float64(eng.ModelVersion()))
		metrics.ApproximationError.Set(eng.ApproximationError())
	}

	go runScheduler(eng, time.Duration(cfg.RetrainEverySec)*time.Second, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpapi.NewServer(eng, logger))

	addr := fmt.Sprintf("%s:%d", cfg.API.Bind, cfg.API.Port)
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, mux)
}

// buildProvider constructs the configured Rating Data Provider. Concrete
// adapters (csvdir, sqltable) are non-core collaborators; the engine only
// ever sees the dataprovider.Provider interface.
func buildProvider(cfg config.DataProviderConfig, logger zerolog.Logger) (dataprovider.Provider, error) {
	switch cfg.Kind {
	case "csv":
		return csvdir.New(cfg.Path, logger), nil
	case "sql":
		return sqltable.New(sqltable.Config{
			ConnectionString: cfg.ConnectionString,
			WhereClause:      cfg.WhereClause,
			ItemIDColumn:     cfg.AIDName,
			UserIDColumn:     cfg.UIDName,
			RatingColumn:     cfg.RatingName,
			Table:            cfg.TableName,
		}), nil
	default:
		return nil, fmt.Errorf("unrecognized dataprovider kind %q", cfg.Kind)
	}
}

// runScheduler retrains the engine on a fixed interval: wake, retrain,
// repeat, for the lifetime of the process. An earlier version of this
// scheduler slept once and exited instead of looping; that was a bug.
func runScheduler(eng *engine.Engine, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		logger.Warn().Msg("retrain scheduler disabled: non-positive interval")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		start := time.Now()
		err := eng.Retrain()
		metrics.RetrainDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			if errors.Is(err, engine.ErrRetrainInProgress) {
				metrics.RetrainTotal.WithLabelValues("in_progress").Inc()
				logger.Warn().Msg("scheduled retrain skipped: previous retrain still running")
				continue
			}
			metrics.RetrainTotal.WithLabelValues("provider_error").Inc()
			logger.Error().Err(err).Msg("scheduled retrain failed")
			continue
		}
		metrics.RetrainTotal.WithLabelValues("success").Inc()
		metrics.ModelVersion.Set(float64(eng.ModelVersion()))
		metrics.ApproximationError.Set(eng.ApproximationError())
	}
}
