// Package synthetic generates deterministic identity, ranking, and roster
// tables so the server can run a full analytical pass without any live
// upstream source, and so tests can exercise the pipeline end to end.
//
// Boards are generated with deliberate rank gaps between groups of players
// to give the tiering engine genuine cluster structure to find.
package synthetic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// Default generator configuration constants.
const (
	defaultSeed       = 2024
	defaultPoolSize   = 60 // players generated per position
	defaultOwnerCount = 10
	defaultRosterSize = 6 // players drafted per owner per position pool
	tierBlockSize     = 8 // players per synthetic talent cluster
	tierGap           = 6.0
)

var teamCodes = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "DAL",
	"DEN", "DET", "GB", "KC", "LV", "NE", "NO", "SF", "TB", "SEA",
}

var firstNames = []string{
	"Alex", "Blake", "Carter", "Devin", "Eli", "Frank", "Gray", "Hollis",
	"Ivan", "Jude", "Kai", "Lane", "Miles", "Noel", "Owen", "Pratt",
	"Quinn", "Reese", "Shea", "Tate",
}

var lastNames = []string{
	"Abbott", "Barnes", "Cole", "Dalton", "Ellis", "Foster", "Grant",
	"Hayes", "Irwin", "Jensen", "Keller", "Lowry", "Mercer", "Nolan",
	"Orr", "Pierce", "Quigley", "Ramsey", "Sutton", "Thorne",
}

var ownerNames = []string{
	"Gridiron Gurus", "Blitz Brigade", "End Zone Elite", "Red Zone Raiders",
	"Fourth Down Faithful", "Hail Mary Heroes", "Pocket Presence",
	"Scramble Squad", "Touchdown Syndicate", "Waiver Wire Wizards",
}

// Source implements the service's RankingSource and RosterSource using
// generated data. Every method derives its randomness from the fixed seed,
// so repeated calls return identical tables.
type Source struct {
	seed       int64
	poolSize   int
	ownerCount int
	rosterSize int
}

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithSeed fixes the generator seed.
func WithSeed(seed int64) Option {
	return func(s *Source) {
		s.seed = seed
	}
}

// WithPoolSize sets how many players are generated per position.
func WithPoolSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithOwnerCount sets how many league owners the snapshot carries.
func WithOwnerCount(n int) Option {
	return func(s *Source) {
		if n > 0 && n <= len(ownerNames) {
			s.ownerCount = n
		}
	}
}

// New creates a deterministic synthetic source.
func New(opts ...Option) *Source {
	s := &Source{
		seed:       defaultSeed,
		poolSize:   defaultPoolSize,
		ownerCount: defaultOwnerCount,
		rosterSize: defaultRosterSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IdentityRows returns the identity source table covering every generated
// player across all positions.
func (s *Source) IdentityRows(_ context.Context) ([]model.SourceRow, error) {
	rows := make([]model.SourceRow, 0, s.poolSize*len(model.Positions()))
	for p, pos := range model.Positions() {
		rng := s.rng(p)
		for i := 0; i < s.poolSize; i++ {
			age := 21 + rng.Float64()*12
			rows = append(rows, model.SourceRow{
				DisplayName:       s.playerName(pos, i),
				TeamCode:          teamCodes[(p*7+i)%len(teamCodes)],
				RosterPlatformID:  fmt.Sprintf("%d", s.platformID(pos, i)),
				RankingProviderID: fmt.Sprintf("%d", s.rankingID(pos, i)),
				StatsProviderID:   fmt.Sprintf("00-%04d", s.rankingID(pos, i)),
				Age:               &age,
			})
		}
	}
	return rows, nil
}

// Board returns the positional ranking board. Consensus ranks step through
// clustered blocks separated by gaps; best/worst bounds widen with rank to
// mimic growing expert disagreement down the board.
func (s *Source) Board(_ context.Context, pos model.Position) ([]model.RankedPlayerRow, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("unknown position %q", pos)
	}
	p := positionIndex(pos)
	rng := s.rng(100 + p)

	rows := make([]model.RankedPlayerRow, 0, s.poolSize)
	for i := 0; i < s.poolSize; i++ {
		block := i / tierBlockSize
		consensus := float64(i+1) + float64(block)*tierGap + rng.Float64()
		spread := 1 + consensus*0.08 + rng.Float64()*2
		rows = append(rows, model.RankedPlayerRow{
			RankingProviderID: model.NewPlayerID(fmt.Sprintf("%d", s.rankingID(pos, i))),
			PlayerName:        s.playerName(pos, i),
			Team:              teamCodes[(p*7+i)%len(teamCodes)],
			Position:          pos,
			ConsensusRank:     consensus,
			BestRank:          consensus - spread,
			WorstRank:         consensus + spread*1.4,
			RankStdDev:        spread / 2,
			ProjectedPoints:   260 - consensus*1.7 + rng.Float64()*10,
		})
	}
	return rows, nil
}

// Snapshot returns a league where the configured owners snake-draft the top
// of each positional pool; everyone below the drafted pool is a free agent.
func (s *Source) Snapshot(_ context.Context, leagueID string) (*model.RosterSnapshot, error) {
	snap := &model.RosterSnapshot{LeagueID: leagueID}
	held := make([][]model.PlayerID, s.ownerCount)
	for _, pos := range model.Positions() {
		drafted := s.ownerCount * s.rosterSize
		if drafted > s.poolSize {
			drafted = s.poolSize
		}
		for i := 0; i < drafted; i++ {
			owner := snakeOwner(i, s.ownerCount)
			held[owner] = append(held[owner], model.NewPlayerID(fmt.Sprintf("%d", s.platformID(pos, i))))
		}
	}
	for o := 0; o < s.ownerCount; o++ {
		snap.Teams = append(snap.Teams, model.TeamRoster{
			OwnerID:         fmt.Sprintf("owner-%d", o+1),
			OwnerName:       ownerNames[o],
			HeldPlatformIDs: held[o],
		})
	}
	return snap, nil
}

// snakeOwner maps a pick index to an owner in snake-draft order.
func snakeOwner(pick, owners int) int {
	round := pick / owners
	slot := pick % owners
	if round%2 == 1 {
		slot = owners - 1 - slot
	}
	return slot
}

func (s *Source) rng(stream int) *rand.Rand {
	return rand.New(rand.NewSource(s.seed + int64(stream)*1_000_003))
}

func (s *Source) playerName(pos model.Position, i int) string {
	p := positionIndex(pos)
	first := firstNames[(p*3+i)%len(firstNames)]
	last := lastNames[(p*5+i*7)%len(lastNames)]
	return first + " " + last
}

func (s *Source) rankingID(pos model.Position, i int) int {
	return 1000 + positionIndex(pos)*1000 + i
}

func (s *Source) platformID(pos model.Position, i int) int {
	return 9000 + positionIndex(pos)*1000 + i
}

func positionIndex(pos model.Position) int {
	for i, p := range model.Positions() {
		if p == pos {
			return i
		}
	}
	return 0
}
