package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PRIME_CONFIG is set
//  3. env (prefix PRIME_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PRIME_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: PRIME_LOG_LEVEL, PRIME_REUSE_WINDOW_SECONDS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("PRIME_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "prime_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ScoringRevision == "" {
		return fmt.Errorf("%w: scoring_revision must not be empty", ErrInvalidConfig)
	}
	if c.ReuseWindowSeconds <= 0 {
		return fmt.Errorf("%w: reuse_window_seconds must be positive", ErrInvalidConfig)
	}
	if c.MinScoredDomains < 1 || c.MinScoredDomains > 5 {
		return fmt.Errorf("%w: min_scored_domains must be within [1,5]", ErrInvalidConfig)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
