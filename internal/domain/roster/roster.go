// Package roster attributes league ownership to ranked player rows.
//
// Attribution is a pure join: a roster snapshot names owners by the roster
// platform's ids, the identity mapping translates those onto the axis the
// incoming table carries, and every row ends up with either a real owner
// name or one of the two sentinel states. No retries, no errors: a missing
// or malformed snapshot degrades to the no-league sentinel.
package roster

import (
	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// Index maps player ids to owner names on both join axes. A zero-value
// Index (or one built from a nil snapshot) is inactive: attribution then
// marks every row with the no-league sentinel instead of "Free Agent".
type Index struct {
	byRanking map[model.PlayerID]string
	byStats   map[model.PlayerID]string
	active    bool
}

// BuildIndex explodes each owner's held platform ids and translates them
// through the identity mapping onto the ranking-provider and stats-provider
// axes. If the same platform id appears in more than one owner's snapshot
// (an upstream data error), the first owner seen wins.
func BuildIndex(snapshot *model.RosterSnapshot, ids map[model.CanonicalKey]model.PlayerIdentity) Index {
	if snapshot == nil || len(snapshot.Teams) == 0 {
		return Index{}
	}

	// Translation tables keyed by roster-platform id.
	toRanking := make(map[model.PlayerID]model.PlayerID, len(ids))
	toStats := make(map[model.PlayerID]model.PlayerID, len(ids))
	for _, id := range ids {
		if id.RosterPlatformID.IsZero() {
			continue
		}
		if !id.RankingProviderID.IsZero() {
			toRanking[id.RosterPlatformID] = id.RankingProviderID
		}
		if !id.StatsProviderID.IsZero() {
			toStats[id.RosterPlatformID] = id.StatsProviderID
		}
	}

	idx := Index{
		byRanking: make(map[model.PlayerID]string),
		byStats:   make(map[model.PlayerID]string),
		active:    true,
	}
	for _, team := range snapshot.Teams {
		for _, pid := range team.HeldPlatformIDs {
			if rid, ok := toRanking[pid]; ok {
				if _, taken := idx.byRanking[rid]; !taken {
					idx.byRanking[rid] = team.OwnerName
				}
			}
			if sid, ok := toStats[pid]; ok {
				if _, taken := idx.byStats[sid]; !taken {
					idx.byStats[sid] = team.OwnerName
				}
			}
		}
	}
	return idx
}

// Active reports whether a league snapshot backed this index.
func (ix Index) Active() bool { return ix.active }

// Owner resolves an owner name on the ranking-provider axis.
// The second return reports whether the player is rostered.
func (ix Index) Owner(id model.PlayerID) (string, bool) {
	name, ok := ix.byRanking[id]
	return name, ok
}

// OwnerByStats resolves an owner name on the stats-provider axis, for
// tables that carry a stats id instead of a ranking id.
func (ix Index) OwnerByStats(id model.PlayerID) (string, bool) {
	name, ok := ix.byStats[id]
	return name, ok
}

// Attach annotates every row with an owner and returns a new slice; the
// input is never mutated. Rows are de-duplicated by ranking-provider id,
// keeping first-seen order, so the output never repeats a player even when
// the incoming table does. For a well-formed input the output row count
// equals the input row count.
func Attach(ix Index, rows []model.RankedPlayerRow) []model.RankedPlayerRow {
	out := make([]model.RankedPlayerRow, 0, len(rows))
	seen := make(map[model.PlayerID]struct{}, len(rows))

	for _, row := range rows {
		if !row.RankingProviderID.IsZero() {
			if _, dup := seen[row.RankingProviderID]; dup {
				continue
			}
			seen[row.RankingProviderID] = struct{}{}
		}

		switch {
		case !ix.active:
			row.Owner = model.OwnerNoLeague
		default:
			if name, ok := ix.byRanking[row.RankingProviderID]; ok {
				row.Owner = name
			} else {
				row.Owner = model.OwnerFreeAgent
			}
		}
		out = append(out, row)
	}
	return out
}
