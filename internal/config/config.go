// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LeagueID selects the roster-platform league to attribute ownership
	// from. Empty disables ownership attribution entirely.
	LeagueID string `koanf:"league_id"`

	// DataMode selects the ranking source: "synthetic" or "live".
	DataMode string `koanf:"data_mode"`

	// TierCandidatesMin and TierCandidatesMax bound the tier-count search.
	TierCandidatesMin int `koanf:"tier_candidates_min"`
	TierCandidatesMax int `koanf:"tier_candidates_max"`

	// MaxTieredPlayers caps how many players per position are clustered.
	MaxTieredPlayers int `koanf:"max_tiered_players"`

	// TierSeed fixes the clustering RNG so repeated runs agree.
	TierSeed uint64 `koanf:"tier_seed"`

	// BuildWorkers bounds concurrent per-position board builds.
	BuildWorkers int `koanf:"build_workers"`

	// RefreshInterval is how often boards are rebuilt from sources.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// Trade curve shape. Values at rank 1 equal TradeCeiling and decay
	// exponentially with a knee at TradeStarterCutoff.
	TradeCeiling       float64 `koanf:"trade_ceiling"`
	TradeStarterCutoff float64 `koanf:"trade_starter_cutoff"`
	TradeSteepLoss     float64 `koanf:"trade_steep_loss"`
	TradeTailLoss      float64 `koanf:"trade_tail_loss"`
	TradeTailSpan      float64 `koanf:"trade_tail_span"`

	// SleeperBaseURL overrides the roster platform endpoint, mainly in tests.
	SleeperBaseURL string `koanf:"sleeper_base_url"`

	// FetchCacheEnabled and FetchCacheTTL control roster document caching.
	FetchCacheEnabled bool          `koanf:"fetch_cache_enabled"`
	FetchCacheTTL     time.Duration `koanf:"fetch_cache_ttl"`

	// TeamAliases maps non-standard team codes to canonical ones, layered
	// over the built-in alias table.
	TeamAliases map[string]string `koanf:"team_aliases"`
}

// Data modes accepted by Config.DataMode.
const (
	DataModeSynthetic = "synthetic"
	DataModeLive      = "live"
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		LeagueID:           "",
		DataMode:           DataModeSynthetic,
		TierCandidatesMin:  5,
		TierCandidatesMax:  10,
		MaxTieredPlayers:   40,
		TierSeed:           13,
		BuildWorkers:       min(runtime.NumCPU(), 4),
		RefreshInterval:    6 * time.Hour,
		TradeCeiling:       99,
		TradeStarterCutoff: 84,
		TradeSteepLoss:     0.80,
		TradeTailLoss:      0.95,
		TradeTailSpan:      216,
		SleeperBaseURL:     "",
		FetchCacheEnabled:  true,
		FetchCacheTTL:      15 * time.Minute,
		TeamAliases:        map[string]string{},
	}
}

// TierCandidates expands the configured min/max bounds into the list of
// cluster counts the tiering engine will score.
func (c *Config) TierCandidates() []int {
	out := make([]int, 0, c.TierCandidatesMax-c.TierCandidatesMin+1)
	for k := c.TierCandidatesMin; k <= c.TierCandidatesMax; k++ {
		out = append(out, k)
	}
	return out
}
