// Package identity builds the canonical mapping between roster-platform,
// rankings-provider, and stats-provider player identifiers.
//
// The sources share no common key, so the mapping is keyed off a composite
// of normalized name + team. Rows that cannot be joined on any axis are
// dropped here, with a count, rather than surfacing as null-filled joins
// downstream.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
	"github.com/fieldgeneral/dynasty/pkg/logger"
	"github.com/fieldgeneral/dynasty/pkg/metrics"
)

// defaultTeamAliases canonicalizes franchise codes. Some providers use
// 3-letter codes where others use 2-letter codes for the same franchise.
var defaultTeamAliases = map[string]string{
	"GBP": "GB",
	"KCC": "KC",
	"LVR": "LV",
	"NEP": "NE",
	"NOS": "NO",
	"SFO": "SF",
	"TBB": "TB",
}

// Resolver produces the canonical player identity mapping.
type Resolver struct {
	teamAliases map[string]string
	logger      logger.Logger
}

// New creates a Resolver with the default team alias table.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		teamAliases: defaultTeamAliases,
		logger:      nil, // resolved lazily so tests can run without Init
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve builds the canonical mapping from a raw identity source table.
//
// An empty source table returns ErrDataUnavailable: callers must be able to
// distinguish "identity source is down" from a legitimately quiet week.
// Rows missing every foreign identifier are dropped and counted. Duplicate
// canonical keys keep the first row seen.
func (r *Resolver) Resolve(ctx context.Context, rows []model.SourceRow) (map[model.CanonicalKey]model.PlayerIdentity, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("identity source returned zero rows: %w", ErrDataUnavailable)
	}

	resolved := make(map[model.CanonicalKey]model.PlayerIdentity, len(rows))
	var unresolvable, duplicates int

	for _, row := range rows {
		id := model.PlayerIdentity{
			RosterPlatformID:  model.NewPlayerID(row.RosterPlatformID),
			RankingProviderID: model.NewPlayerID(row.RankingProviderID),
			StatsProviderID:   model.NewPlayerID(row.StatsProviderID),
			Age:               row.Age,
		}

		// A player resolvable on no ownership axis provides no value.
		if id.RosterPlatformID.IsZero() && id.RankingProviderID.IsZero() {
			unresolvable++
			continue
		}

		key := r.canonicalKey(row.DisplayName, row.TeamCode)
		if key == "" {
			unresolvable++
			continue
		}
		if _, seen := resolved[key]; seen {
			duplicates++
			continue
		}
		id.CanonicalKey = key
		resolved[key] = id
	}

	if unresolvable > 0 || duplicates > 0 {
		metrics.RecordIdentityDropped(unresolvable + duplicates)
		r.log().Warn(ctx, "dropped unresolvable identity rows",
			logger.Error(ErrIdentityUnresolvable),
			logger.Int("unresolvable", unresolvable),
			logger.Int("duplicates", duplicates),
			logger.Int("resolved", len(resolved)),
		)
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("no identity row carries a usable foreign id: %w", ErrDataUnavailable)
	}
	return resolved, nil
}

// canonicalKey builds "{name} {TEAM}" with the team code normalized against
// the alias table. Returns "" when name or team is blank.
func (r *Resolver) canonicalKey(name, team string) model.CanonicalKey {
	name = strings.TrimSpace(name)
	team = strings.ToUpper(strings.TrimSpace(team))
	if alias, ok := r.teamAliases[team]; ok {
		team = alias
	}
	if name == "" || team == "" {
		return ""
	}
	return model.CanonicalKey(name + " " + team)
}

func (r *Resolver) log() logger.Logger {
	if r.logger == nil {
		r.logger = logger.Get().Named("identity")
	}
	return r.logger
}
