// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero min support", func(c *Config) { c.Mining.DefaultMinSupport = 0 }, true},
		{"min support above one", func(c *Config) { c.Mining.DefaultMinSupport = 1.5 }, true},
		{"zero min confidence", func(c *Config) { c.Mining.DefaultMinConfidence = 0 }, true},
		{"unknown strategy", func(c *Config) { c.Mining.ThresholdStrategy = "magic" }, true},
		{"avg_frequency without factor", func(c *Config) {
			c.Mining.ThresholdStrategy = "avg_frequency"
			c.Mining.AvgFrequencyFactor = 0
		}, true},
		{"avg_frequency with factor", func(c *Config) {
			c.Mining.ThresholdStrategy = "avg_frequency"
			c.Mining.AvgFrequencyFactor = 0.5
		}, false},
		{"negative workers", func(c *Config) { c.Mining.Workers = -1 }, true},
		{"empty dataset path", func(c *Config) { c.Dataset.Path = "" }, true},
		{"empty invoice column", func(c *Config) { c.Dataset.InvoiceColumn = "" }, true},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, true},
		{"zero rate limit when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"PORT", "server.port"},
		{"MIN_SUPPORT", "mining.default_min_support"},
		{"DATASET_PATH", "dataset.path"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"RANDOM_VAR", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
mining:
  default_min_support: 0.05
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MIN_CONFIDENCE", "0.6")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000 (from file)", cfg.Server.Port)
	}
	if cfg.Mining.DefaultMinSupport != 0.05 {
		t.Errorf("DefaultMinSupport = %g, want 0.05 (from file)", cfg.Mining.DefaultMinSupport)
	}
	if cfg.Mining.DefaultMinConfidence != 0.6 {
		t.Errorf("DefaultMinConfidence = %g, want 0.6 (from env)", cfg.Mining.DefaultMinConfidence)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %s, want default 30s", cfg.Server.Timeout)
	}
}

func TestLoadInvalidEnvValue(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MIN_SUPPORT", "3.0")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want validation failure")
	}
}
