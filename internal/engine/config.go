// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package engine

import (
	"fmt"

	"github.com/seijikun/funkrec/internal/engine/funksvd"
)

// Config aggregates every tunable knob of the engine: the FunkSVD
// hyperparameters, the baseline smoothing strength, and the sanitizer
// applied to residuals and served predictions.
type Config struct {
	Trainer funksvd.Config
	// BaselineK is the Bayesian prior strength used to smooth per-item
	// means and per-user offsets toward the global averages.
	BaselineK float64
}

// DefaultConfig returns the engine defaults described by the trainer and
// baseline packages.
func DefaultConfig() Config {
	return Config{
		Trainer:   funksvd.DefaultConfig(),
		BaselineK: 25,
	}
}

// Validate checks that Config's numeric fields are within sane bounds,
// mirroring the defensive validation the source config layer applies
// before accepting a configuration.
func (c Config) Validate() error {
	if c.Trainer.Features <= 0 {
		return fmt.Errorf("engine: trainer.features must be > 0, got %d", c.Trainer.Features)
	}
	if c.Trainer.LearnRate <= 0 {
		return fmt.Errorf("engine: trainer.learn_rate must be > 0, got %v", c.Trainer.LearnRate)
	}
	if c.Trainer.Regularization < 0 {
		return fmt.Errorf("engine: trainer.regularization must be >= 0, got %v", c.Trainer.Regularization)
	}
	if c.Trainer.MinSteps <= 0 || c.Trainer.MaxSteps < c.Trainer.MinSteps {
		return fmt.Errorf("engine: trainer.max_steps (%d) must be >= min_steps (%d) > 0", c.Trainer.MaxSteps, c.Trainer.MinSteps)
	}
	if c.Trainer.MinImprovement < 0 {
		return fmt.Errorf("engine: trainer.min_improvement must be >= 0, got %v", c.Trainer.MinImprovement)
	}
	if c.BaselineK <= 0 {
		return fmt.Errorf("engine: baseline_k must be > 0, got %v", c.BaselineK)
	}
	return nil
}
