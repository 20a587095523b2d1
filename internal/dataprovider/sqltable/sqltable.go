// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package sqltable implements a Provider that pulls ratings from a SQL
// table via database/sql, using the DuckDB driver.
package sqltable

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/seijikun/funkrec/internal/engine/ratings"
)

// Config names the connection and the table/column layout to read ratings
// from.
type Config struct {
	ConnectionString string
	WhereClause      string // optional
	ItemIDColumn     string
	UserIDColumn     string
	RatingColumn     string
	Table            string
}

// Provider reads ratings from a SQL table matching Config.
type Provider struct {
	cfg   Config
	query string
}

// New builds a Provider and precomputes its SELECT statement.
func New(cfg Config) *Provider {
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s", cfg.ItemIDColumn, cfg.UserIDColumn, cfg.RatingColumn, cfg.Table)
	if cfg.WhereClause != "" {
		query += " WHERE " + cfg.WhereClause
	}
	return &Provider{cfg: cfg, query: query}
}

// Get opens the configured connection, runs the precomputed query, and
// builds a Container from the resulting rows.
func (p *Provider) Get() (*ratings.Container, error) {
	db, err := sql.Open("duckdb", p.cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("sqltable: open connection: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(p.query)
	if err != nil {
		return nil, fmt.Errorf("sqltable: query ratings: %w", err)
	}
	defer rows.Close()

	b := ratings.NewBuilder()
	for rows.Next() {
		var itemID, userID int64
		var rating float64
		if err := rows.Scan(&itemID, &userID, &rating); err != nil {
			return nil, fmt.Errorf("sqltable: scan row: %w", err)
		}
		b.Add(itemID, userID, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqltable: iterate rows: %w", err)
	}

	return b.Build(), nil
}
