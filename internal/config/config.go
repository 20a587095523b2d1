// funkrec - Collaborative-filtering recommendation engine
// Copyright 2026 The funkrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/seijikun/funkrec

// Package config loads application configuration with layered sources,
// using Koanf v2: built-in defaults, an optional YAML file, then
// environment variables, each layer overriding the one before it.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where a config file is searched for,
// in order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/funkrec/config.yaml",
}

// ConfigPathEnvVar overrides the searched config file path.
const ConfigPathEnvVar = "FUNKREC_CONFIG_PATH"

// APIConfig configures the HTTP surface exposing the three query routes.
type APIConfig struct {
	Bind string `koanf:"bind"`
	Port uint16 `koanf:"port"`
}

// DataProviderConfig describes which rating source to load from and its
// connection details. Kind selects between "sql" and "csv"; the fields
// relevant to the other kind are left zero-valued.
type DataProviderConfig struct {
	Kind string `koanf:"kind"`

	// SQL fields.
	ConnectionString string `koanf:"connection_string"`
	WhereClause      string `koanf:"where_clause"`
	AIDName          string `koanf:"aid_name"`
	UIDName          string `koanf:"uid_name"`
	RatingName       string `koanf:"rating_name"`
	TableName        string `koanf:"table_name"`

	// CSV fields.
	Path string `koanf:"path"`
}

// LoggingConfig configures the ambient zerolog setup.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the root application configuration, populated by Load.
type Config struct {
	API             APIConfig          `koanf:"api"`
	RetrainEverySec uint64             `koanf:"retrain_every_sec"`
	DataProvider    DataProviderConfig `koanf:"dataprovider"`
	Logging         LoggingConfig      `koanf:"logging"`
	Features        int                `koanf:"features"`
	LearnRate       float64            `koanf:"learn_rate"`
	Regularization  float64            `koanf:"regularization"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file and environment variables are layered on top.
func defaultConfig() Config {
	return Config{
		API:             APIConfig{Bind: "127.0.0.1", Port: 1337},
		RetrainEverySec: 86400,
		DataProvider:    DataProviderConfig{Kind: "csv"},
		Logging:         LoggingConfig{Level: "info", Format: "json"},
		Features:        25,
		LearnRate:       0.01,
		Regularization:  0.02,
	}
}

// Validate checks the loaded Config for obviously broken values.
func (c Config) Validate() error {
	if c.API.Port == 0 {
		return fmt.Errorf("config: api.port must be non-zero")
	}
	if c.RetrainEverySec == 0 {
		return fmt.Errorf("config: retrain_every_sec must be > 0")
	}
	switch c.DataProvider.Kind {
	case "csv":
		if c.DataProvider.Path == "" {
			return fmt.Errorf("config: dataprovider.path required for kind=csv")
		}
	case "sql":
		if c.DataProvider.ConnectionString == "" || c.DataProvider.TableName == "" {
			return fmt.Errorf("config: dataprovider.connection_string and table_name required for kind=sql")
		}
	default:
		return fmt.Errorf("config: unrecognized dataprovider.kind %q", c.DataProvider.Kind)
	}
	return nil
}

// Load layers defaults, an optional YAML config file, and environment
// variables (prefixed FUNKREC_) into a validated Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("FUNKREC_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "FUNKREC_")
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
