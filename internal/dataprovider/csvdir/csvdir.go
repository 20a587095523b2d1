// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package csvdir implements a Provider that reads ratings from a directory
// of per-item CSV files.
package csvdir

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seijikun/funkrec/internal/engine/ratings"
)

// Provider reads a directory of files named "<item_id>.csv", each
// containing rows of "user_id,rating". Ratings are assumed to arrive on a
// 0-10 scale and are halved on ingest to normalize them to 0-5. Files with
// a non-.csv extension are ignored; a malformed row is skipped rather than
// failing the whole load.
type Provider struct {
	Dir    string
	Logger zerolog.Logger
}

// New returns a Provider rooted at dir.
func New(dir string, logger zerolog.Logger) *Provider {
	return &Provider{Dir: dir, Logger: logger}
}

// Get scans Dir and builds a Container from every *.csv file found.
func (p *Provider) Get() (*ratings.Container, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, err
	}

	b := ratings.NewBuilder()
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		itemID, err := strconv.ParseInt(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), 10, 64)
		if err != nil {
			p.Logger.Warn().Str("file", entry.Name()).Err(err).Msg("skipping file with non-numeric item id")
			continue
		}

		if err := p.loadFile(filepath.Join(p.Dir, entry.Name()), itemID, b); err != nil {
			p.Logger.Warn().Str("file", entry.Name()).Err(err).Msg("skipping unreadable rating file")
		}
	}

	return b.Build(), nil
}

func (p *Provider) loadFile(path string, itemID int64, b *ratings.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A row the csv.Reader cannot parse is skipped; reading goes on
			// with the next record.
			continue
		}
		if len(record) < 2 {
			continue
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			continue
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			continue
		}

		b.Add(itemID, userID, rating/2)
	}
	return nil
}
