// Package model contains the typed records passed between pipeline stages.
package model

import "strings"

// Owner sentinel values. These are valid states, not errors: NoLeague means
// no league context was supplied at all, FreeAgent means a league exists but
// nobody rosters the player.
const (
	OwnerNoLeague  = "N/A"
	OwnerFreeAgent = "Free Agent"
)

// PlayerID is a normalized string join key. Identifier columns arrive from
// upstream sources as strings, ints, or float-rendered ints ("4046.0");
// all cross-source joins compare PlayerID values only, never raw columns.
type PlayerID string

// NewPlayerID normalizes a raw identifier into a PlayerID. Leading and
// trailing whitespace is trimmed and a trailing ".0" float rendering is
// collapsed so that "4046.0" and "4046" join as the same player.
func NewPlayerID(raw string) PlayerID {
	s := strings.TrimSpace(raw)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && allZeros(s[dot+1:]) {
		s = s[:dot]
	}
	return PlayerID(s)
}

func allZeros(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}

// IsZero reports whether the id is empty after normalization.
func (id PlayerID) IsZero() bool { return id == "" }

// String returns the normalized string form.
func (id PlayerID) String() string { return string(id) }

// CanonicalKey identifies a player by "{name} {TEAM}". It is the only key
// shared across sources that carry no common identifier.
type CanonicalKey string

// Position is the fixed position enum used by ranking boards.
type Position string

// Supported board positions.
const (
	QB Position = "QB"
	RB Position = "RB"
	WR Position = "WR"
	TE Position = "TE"
)

// Positions lists all board positions in display order.
func Positions() []Position { return []Position{QB, RB, WR, TE} }

// Valid reports whether p is one of the supported positions.
func (p Position) Valid() bool {
	switch p {
	case QB, RB, WR, TE:
		return true
	}
	return false
}

// PlayerIdentity links one player across the roster platform, the rankings
// provider, and the stats provider. CanonicalKey is immutable once built.
// An identity missing both RosterPlatformID and RankingProviderID cannot
// participate in ownership attribution and is never emitted by the resolver.
type PlayerIdentity struct {
	CanonicalKey      CanonicalKey
	RosterPlatformID  PlayerID
	RankingProviderID PlayerID
	StatsProviderID   PlayerID
	Age               *float64
}

// TeamRoster is one owner's slice of a RosterSnapshot.
type TeamRoster struct {
	OwnerID   string
	OwnerName string
	// HeldPlatformIDs holds de-duplicated roster-platform ids. Order is
	// irrelevant; membership is what matters.
	HeldPlatformIDs []PlayerID
}

// RosterSnapshot is the full league roster state for one analytical pass.
// It is built once per league query and never mutated afterwards.
type RosterSnapshot struct {
	LeagueID string
	Teams    []TeamRoster
}

// RankedPlayerRow is one player on a positional ranking board, plus the
// derived columns the pipeline stages append. BestRank <= ConsensusRank <=
// WorstRank and RankStdDev >= 0 hold for well-formed upstream rows.
type RankedPlayerRow struct {
	RankingProviderID PlayerID
	PlayerName        string
	Team              string
	Position          Position
	ConsensusRank     float64
	BestRank          float64
	WorstRank         float64
	RankStdDev        float64
	ProjectedPoints   float64

	// Derived columns, appended by pipeline stages.
	Age            *float64
	Owner          string
	Tier           int
	TierConfidence string
	TradeValue     int
}

// SourceRow is one raw row from the identity source table, keyed by the
// provider's native schema.
type SourceRow struct {
	DisplayName       string
	TeamCode          string
	RosterPlatformID  string
	RankingProviderID string
	StatsProviderID   string
	Age               *float64
}
