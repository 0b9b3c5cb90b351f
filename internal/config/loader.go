package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if DYNASTY_CONFIG is set
//  3. env (prefix DYNASTY_)
func Load() (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DYNASTY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: DYNASTY_ADDR, DYNASTY_LEAGUE_ID, ...
	// Map env keys like DYNASTY_LEAGUE_ID -> league_id (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("DYNASTY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "dynasty_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DataMode != DataModeSynthetic && c.DataMode != DataModeLive {
		return fmt.Errorf("%w: data_mode must be %q or %q", ErrInvalidConfig, DataModeSynthetic, DataModeLive)
	}
	if c.TierCandidatesMin < 2 || c.TierCandidatesMax < c.TierCandidatesMin {
		return fmt.Errorf("%w: tier candidate bounds must satisfy 2 <= min <= max", ErrInvalidConfig)
	}
	if c.MaxTieredPlayers < c.TierCandidatesMin {
		return fmt.Errorf("%w: max_tiered_players must be at least tier_candidates_min", ErrInvalidConfig)
	}
	if c.BuildWorkers < 1 {
		return fmt.Errorf("%w: build_workers must be positive", ErrInvalidConfig)
	}
	if c.TradeCeiling <= 0 || c.TradeStarterCutoff <= 1 {
		return fmt.Errorf("%w: trade curve ceiling and cutoff must be positive", ErrInvalidConfig)
	}
	if c.TradeSteepLoss <= 0 || c.TradeSteepLoss >= 1 || c.TradeTailLoss <= 0 || c.TradeTailLoss >= 1 {
		return fmt.Errorf("%w: trade losses must lie in (0, 1)", ErrInvalidConfig)
	}
	if c.TradeTailSpan <= 0 {
		return fmt.Errorf("%w: trade_tail_span must be positive", ErrInvalidConfig)
	}
	if c.DataMode == DataModeLive && c.LeagueID == "" {
		return fmt.Errorf("%w: live data_mode requires league_id", ErrInvalidConfig)
	}
	return nil
}
