// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package config provides layered configuration for Basketry: struct
// defaults, then an optional YAML file, then environment variables, loaded
// through koanf and validated before use.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Mining   MiningConfig   `koanf:"mining"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig controls API-level behavior.
type APIConfig struct {
	// CacheTTL is how long mined results for one threshold combination are
	// served from the in-memory cache before re-mining.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RequestTimeout bounds a single mining request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// MiningConfig holds default thresholds and engine tuning.
type MiningConfig struct {
	// DefaultMinSupport is used when a request omits min_support and the
	// threshold strategy is "fixed". Must be in (0, 1].
	DefaultMinSupport float64 `koanf:"default_min_support"`

	// DefaultMinConfidence is used when a request omits min_confidence.
	// Must be in (0, 1].
	DefaultMinConfidence float64 `koanf:"default_min_confidence"`

	// ThresholdStrategy selects the default min_support policy: "fixed" or
	// "avg_frequency".
	ThresholdStrategy string `koanf:"threshold_strategy"`

	// AvgFrequencyFactor scales the average item frequency when the
	// "avg_frequency" strategy is active.
	AvgFrequencyFactor float64 `koanf:"avg_frequency_factor"`

	// Workers bounds the support-counting worker pool. 0 selects GOMAXPROCS.
	Workers int `koanf:"workers"`
}

// DatasetConfig locates the sales export and its column layout.
type DatasetConfig struct {
	// Path is the CSV file holding one row per invoice line.
	Path string `koanf:"path"`

	// InvoiceColumn and ProductColumn name the CSV headers used to group
	// rows into transactions.
	InvoiceColumn string `koanf:"invoice_column"`
	ProductColumn string `koanf:"product_column"`

	// ReloadInterval re-reads the export periodically when positive. Zero
	// disables automatic reloads; POST /api/v1/admin/reload still works.
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// SecurityConfig carries CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config for the config file.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8450,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			CacheTTL:       5 * time.Minute,
			RequestTimeout: 30 * time.Second,
		},
		Mining: MiningConfig{
			DefaultMinSupport:    0.01,
			DefaultMinConfidence: 0.3,
			ThresholdStrategy:    "fixed",
			AvgFrequencyFactor:   0.5,
			Workers:              0,
		},
		Dataset: DatasetConfig{
			Path:          "/data/sales.csv",
			InvoiceColumn: "Invoice ID",
			ProductColumn: "Product",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if s := c.Mining.DefaultMinSupport; s <= 0 || s > 1 {
		return fmt.Errorf("mining.default_min_support %g out of range (0, 1]", s)
	}
	if v := c.Mining.DefaultMinConfidence; v <= 0 || v > 1 {
		return fmt.Errorf("mining.default_min_confidence %g out of range (0, 1]", v)
	}
	switch c.Mining.ThresholdStrategy {
	case "fixed", "avg_frequency":
	default:
		return fmt.Errorf("mining.threshold_strategy %q: want fixed or avg_frequency", c.Mining.ThresholdStrategy)
	}
	if c.Mining.ThresholdStrategy == "avg_frequency" && c.Mining.AvgFrequencyFactor <= 0 {
		return fmt.Errorf("mining.avg_frequency_factor must be positive, got %g", c.Mining.AvgFrequencyFactor)
	}
	if c.Mining.Workers < 0 {
		return fmt.Errorf("mining.workers must be >= 0, got %d", c.Mining.Workers)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Dataset.InvoiceColumn == "" || c.Dataset.ProductColumn == "" {
		return fmt.Errorf("dataset.invoice_column and dataset.product_column are required")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be >= 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}
