// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

package config

import "testing"

func TestConfig_Validate_RejectsZeroPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.API.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject api.port = 0")
	}
}

func TestConfig_Validate_RejectsUnknownDataProviderKind(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataProvider.Kind = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unrecognized dataprovider.kind")
	}
}

func TestConfig_Validate_CSVRequiresPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataProvider.Kind = "csv"
	cfg.DataProvider.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject csv provider with empty path")
	}
}

func TestConfig_Validate_SQLRequiresConnectionAndTable(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataProvider.Kind = "sql"
	cfg.DataProvider.ConnectionString = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject sql provider with empty connection string")
	}
}

func TestDefaultConfig_IsValidOnceRequiredFieldsAreSet(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataProvider.Path = "/data/ratings"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
