// Package service provides the core board service that implements the
// dependencies required by the HTTP API.
//
// One analytical pass runs the pipeline in strict order: resolve identities,
// build the ownership index, then fan out per position to attach owners and
// derive tiers and trade values. The tiering and valuation stages consume
// the same ownership-attributed rows independently.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fieldgeneral/dynasty/internal/adapters/repository"
	"github.com/fieldgeneral/dynasty/internal/domain/identity"
	"github.com/fieldgeneral/dynasty/internal/domain/model"
	"github.com/fieldgeneral/dynasty/internal/domain/roster"
	"github.com/fieldgeneral/dynasty/internal/domain/tiers"
	"github.com/fieldgeneral/dynasty/internal/domain/tradevalue"
	"github.com/fieldgeneral/dynasty/pkg/logger"
	"github.com/fieldgeneral/dynasty/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultBuildWorkers = 4
	defaultMaxTiered    = 40
)

// defaultTierCandidates mirrors the positional sweep range used by the
// dynasty boards: between 5 and 10 tiers, selected by BIC.
func defaultTierCandidates() []int { return []int{5, 6, 7, 8, 9, 10} }

// RankingSource supplies the already-fetched tabular inputs the core
// consumes: the identity source table and per-position ranking boards.
// Fetching, scraping, and caching of those documents live behind this
// boundary; the core never performs I/O of its own.
type RankingSource interface {
	IdentityRows(ctx context.Context) ([]model.SourceRow, error)
	Board(ctx context.Context, pos model.Position) ([]model.RankedPlayerRow, error)
}

// RosterSource supplies the league roster snapshot for ownership
// attribution. Optional: without one, boards carry the no-league sentinel.
type RosterSource interface {
	Snapshot(ctx context.Context, leagueID string) (*model.RosterSnapshot, error)
}

// Service orchestrates the analytical pipeline and serves computed boards.
type Service struct {
	// Core components
	rankings RankingSource
	rosters  RosterSource
	store    repository.Store
	resolver *identity.Resolver
	tiering  *tiers.Engine
	curve    *tradevalue.Curve

	// Configuration
	leagueID       string
	tierCandidates []int
	maxTiered      int
	buildWorkers   int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRankingSource sets the ranking/identity table supplier.
func WithRankingSource(src RankingSource) Option {
	return func(s *Service) {
		if src != nil {
			s.rankings = src
		}
	}
}

// WithRosterSource sets the roster snapshot supplier.
func WithRosterSource(src RosterSource) Option {
	return func(s *Service) {
		s.rosters = src
	}
}

// WithLeagueID sets the active league. Empty means no league context.
func WithLeagueID(id string) Option {
	return func(s *Service) {
		s.leagueID = id
	}
}

// WithTierCandidates sets the ordered tier counts swept during BIC search.
func WithTierCandidates(candidates []int) Option {
	return func(s *Service) {
		if len(candidates) > 0 {
			s.tierCandidates = candidates
		}
	}
}

// WithMaxTieredPlayers bounds the talent pool passed to the tiering engine.
func WithMaxTieredPlayers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTiered = n
		}
	}
}

// WithBuildWorkers bounds the per-position build fan-out.
func WithBuildWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.buildWorkers = n
		}
	}
}

// WithIdentityResolver replaces the default identity resolver.
func WithIdentityResolver(r *identity.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithTieringEngine replaces the default tiering engine.
func WithTieringEngine(e *tiers.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.tiering = e
		}
	}
}

// WithTradeCurve replaces the default trade value curve.
func WithTradeCurve(c *tradevalue.Curve) Option {
	return func(s *Service) {
		if c != nil {
			s.curve = c
		}
	}
}

// WithStore replaces the default in-memory board store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:          repository.NewBoardStore(),
		resolver:       identity.New(),
		tiering:        tiers.New(),
		curve:          tradevalue.New(),
		tierCandidates: defaultTierCandidates(),
		maxTiered:      defaultMaxTiered,
		buildWorkers:   defaultBuildWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh runs one full analytical pass and publishes the resulting boards.
// Identity resolution and ownership attribution run first, strictly in that
// order; per-position derivations then fan out over the worker pool.
func (s *Service) Refresh(ctx context.Context) error {
	if s.rankings == nil {
		return fmt.Errorf("no ranking source configured")
	}
	runID := uuid.NewString()
	start := time.Now()

	rows, err := s.rankings.IdentityRows(ctx)
	if err != nil {
		return fmt.Errorf("identity rows: %w", err)
	}
	identities, err := s.resolver.Resolve(ctx, rows)
	if err != nil {
		return fmt.Errorf("resolve identities: %w", err)
	}
	metrics.UpdateIdentitiesResolved(len(identities))

	index := roster.BuildIndex(s.snapshot(ctx), identities)

	// Age lookup on the ranking axis, for dynasty boards.
	ages := make(map[model.PlayerID]*float64, len(identities))
	for _, id := range identities {
		if !id.RankingProviderID.IsZero() && id.Age != nil {
			ages[id.RankingProviderID] = id.Age
		}
	}

	err = runBuilds(ctx, s.buildWorkers, model.Positions(), func(ctx context.Context, pos model.Position) error {
		return s.buildBoard(ctx, runID, pos, index, ages)
	})
	if err != nil {
		return fmt.Errorf("board builds: %w", err)
	}

	s.log().Info(ctx, "analytical pass complete",
		logger.String("runID", runID),
		logger.Int("identities", len(identities)),
		logger.String("elapsed", time.Since(start).String()),
	)
	return nil
}

// snapshot fetches the roster snapshot when a league context exists. Any
// failure degrades to the no-league sentinel rather than failing the pass;
// ownership is an annotation, not a prerequisite.
func (s *Service) snapshot(ctx context.Context) *model.RosterSnapshot {
	if s.rosters == nil || s.leagueID == "" {
		return nil
	}
	snap, err := s.rosters.Snapshot(ctx, s.leagueID)
	if err != nil {
		s.log().Warn(ctx, "roster snapshot unavailable; boards will carry no ownership",
			logger.String("leagueID", s.leagueID),
			logger.Error(err),
		)
		return nil
	}
	return snap
}

// buildBoard derives one position's annotated boards and publishes them.
func (s *Service) buildBoard(ctx context.Context, runID string, pos model.Position, index roster.Index, ages map[model.PlayerID]*float64) error {
	rows, err := s.rankings.Board(ctx, pos)
	if err != nil {
		return fmt.Errorf("%s board: %w", pos, err)
	}

	attributed := roster.Attach(index, rows)
	for i := range attributed {
		if age, ok := ages[attributed[i].RankingProviderID]; ok {
			attributed[i].Age = age
		}
	}

	valued := s.curve.Apply(attributed)
	sort.SliceStable(valued, func(i, j int) bool { return valued[i].ConsensusRank < valued[j].ConsensusRank })

	// Time the clustering alone, not the fetch and annotation around it.
	clusterStart := time.Now()
	tiered, err := s.tiering.Assign(ctx, attributed, s.tierCandidates, s.maxTiered)
	if err != nil {
		metrics.RecordClusteringFailure()
		return fmt.Errorf("%s tiers: %w", pos, err)
	}
	metrics.RecordClusteringDuration(float64(time.Since(clusterStart).Milliseconds()))
	if len(tiered) > 0 {
		metrics.UpdateSelectedTierCount(string(pos), maxTier(tiered))
	}

	s.store.Put(ctx, repository.Board{
		Position:    pos,
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Ranked:      valued,
		Tiered:      tiered,
	})
	metrics.RecordBoardBuild(string(pos))
	return nil
}

func maxTier(rows []model.RankedPlayerRow) int {
	max := 0
	for _, r := range rows {
		if r.Tier > max {
			max = r.Tier
		}
	}
	return max
}

// Board returns the latest computed board for a position.
func (s *Service) Board(ctx context.Context, pos model.Position) (repository.Board, error) {
	return s.store.Get(ctx, pos)
}

// PositionStrength is one owner's standing at a position.
type PositionStrength struct {
	Position   string  `json:"position"`
	TotalValue int     `json:"total_value"`
	Rank       int     `json:"rank"`
	LeagueAvg  float64 `json:"league_avg"`
}

// TeamReport is one owner's roster with positional strength rankings.
type TeamReport struct {
	Owner     string                  `json:"owner"`
	Roster    []model.RankedPlayerRow `json:"roster"`
	Strengths []PositionStrength      `json:"strengths"`
}

// TeamStrength aggregates an owner's roster value across every published
// board and ranks it against the rest of the league. Free-agent and
// no-league rows never participate in the ranking.
func (s *Service) TeamStrength(ctx context.Context, owner string) (TeamReport, error) {
	report := TeamReport{Owner: owner}

	// totals[pos][owner] = summed trade value.
	totals := make(map[string]map[string]int)
	overall := make(map[string]int)

	for _, pos := range model.Positions() {
		board, err := s.store.Get(ctx, pos)
		if err != nil {
			continue // position not built yet
		}
		for _, row := range board.Ranked {
			if row.Owner == owner {
				report.Roster = append(report.Roster, row)
			}
			if row.Owner == model.OwnerFreeAgent || row.Owner == model.OwnerNoLeague {
				continue
			}
			if totals[string(pos)] == nil {
				totals[string(pos)] = make(map[string]int)
			}
			totals[string(pos)][row.Owner] += row.TradeValue
			overall[row.Owner] += row.TradeValue
		}
	}
	if len(report.Roster) == 0 {
		return TeamReport{}, fmt.Errorf("owner %q: %w", owner, repository.ErrNotFound)
	}
	sort.SliceStable(report.Roster, func(i, j int) bool {
		if report.Roster[i].Position != report.Roster[j].Position {
			return report.Roster[i].Position < report.Roster[j].Position
		}
		return report.Roster[i].TradeValue > report.Roster[j].TradeValue
	})

	for _, pos := range model.Positions() {
		if st, ok := strengthFor(totals[string(pos)], owner, string(pos)); ok {
			report.Strengths = append(report.Strengths, st)
		}
	}
	if st, ok := strengthFor(overall, owner, "Overall"); ok {
		report.Strengths = append(report.Strengths, st)
	}
	return report, nil
}

// strengthFor ranks one owner inside a total-value table. Rank 1 holds the
// most value.
func strengthFor(values map[string]int, owner, label string) (PositionStrength, bool) {
	total, ok := values[owner]
	if !ok {
		return PositionStrength{}, false
	}
	rank := 1
	var sum float64
	for _, v := range values {
		sum += float64(v)
		if v > total {
			rank++
		}
	}
	return PositionStrength{
		Position:   label,
		TotalValue: total,
		Rank:       rank,
		LeagueAvg:  sum / float64(len(values)),
	}, true
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"boards":      s.store.Count(ctx),
		"league":      s.leagueID,
		"maxTiered":   s.maxTiered,
		"candidates":  s.tierCandidates,
		"poolWorkers": s.buildWorkers,
	}
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s.logger
}
