// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and PRIME_-prefixed env vars.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration for the scorecard engine.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RegistryPath points at a YAML rule-set file. Empty means the built-in
	// default registry.
	RegistryPath string `koanf:"registry_path"`

	// ScoringRevision identifies the deployed rule set. It is stored
	// verbatim on every scorecard and drives the reuse guard; it is never
	// computed by the engine.
	ScoringRevision string `koanf:"scoring_revision"`

	// ReuseWindowSeconds bounds how old a cached scorecard may be before
	// regeneration is forced.
	ReuseWindowSeconds int `koanf:"reuse_window_seconds"`

	// MinScoredDomains sets how many domains must score before a Prime
	// Score is produced. 5 reproduces the all-or-nothing product rule.
	MinScoredDomains int `koanf:"min_scored_domains"`

	// BatchWorkers bounds concurrent subject computations in batch mode.
	BatchWorkers int `koanf:"batch_workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		RegistryPath:       "",
		ScoringRevision:    "dev",
		ReuseWindowSeconds: 600,
		MinScoredDomains:   5,
		BatchWorkers:       runtime.NumCPU(),
	}
}
