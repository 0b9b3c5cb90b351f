// Package tiers clusters a ranked player board into ordered skill tiers.
//
// The engine fits a Gaussian mixture over (consensus, best, worst) rank
// features for every candidate component count, picks the count minimizing
// the Bayesian Information Criterion, refits the winner, and relabels the
// arbitrary cluster ids so that tier 1 always holds the best average rank.
package tiers

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
	"github.com/fieldgeneral/dynasty/pkg/logger"
)

// Default engine configuration constants. The restart counts mirror the
// asymmetry between the BIC sweep (cheap, many fits) and the final fit
// (one fit whose result is kept).
const (
	defaultSeed           = 13
	defaultSearchRestarts = 5
	defaultFinalRestarts  = 10
	featureCount          = 3 // consensus, best, worst
)

// Engine assigns tiers to ranked player rows. It is a pure function of its
// inputs: the same rows, candidates, and seed always produce the same tiers.
type Engine struct {
	seed           uint64
	searchRestarts int
	finalRestarts  int
	logger         logger.Logger
}

// New creates a tiering engine with deterministic defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		seed:           defaultSeed,
		searchRestarts: defaultSearchRestarts,
		finalRestarts:  defaultFinalRestarts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign clusters the top maxPlayers rows (by consensus rank) into tiers and
// returns the annotated, rank-ordered rows. Candidates is the ordered set of
// component counts to sweep. An empty board returns an empty board; that is
// a valid "no tier data" state, not an error. Degenerate data that cannot
// support any candidate count returns ErrClusteringFailed.
func (e *Engine) Assign(ctx context.Context, rows []model.RankedPlayerRow, candidates []int, maxPlayers int) ([]model.RankedPlayerRow, error) {
	if len(rows) == 0 {
		return []model.RankedPlayerRow{}, nil
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate tier counts supplied: %w", ErrClusteringFailed)
	}
	if maxPlayers <= 0 {
		return nil, fmt.Errorf("max players must be positive, got %d: %w", maxPlayers, ErrClusteringFailed)
	}

	// Truncate to the relevant talent pool. Tiering below it is meaningless.
	board := make([]model.RankedPlayerRow, len(rows))
	copy(board, rows)
	sort.SliceStable(board, func(i, j int) bool { return board[i].ConsensusRank < board[j].ConsensusRank })
	if len(board) > maxPlayers {
		board = board[:maxPlayers]
	}

	features := featureMatrix(board)
	standardize(features)
	distinct := distinctRows(features)

	// Only component counts the data can actually support are swept.
	usable := make([]int, 0, len(candidates))
	for _, k := range candidates {
		if k > 0 && k <= distinct {
			usable = append(usable, k)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%d distinct players cannot support any of the candidate tier counts: %w", distinct, ErrClusteringFailed)
	}

	rng := rand.New(rand.NewSource(e.seed))

	// BIC sweep: few restarts per candidate, keep the argmin.
	bestK, bestBIC := 0, 0.0
	for _, k := range usable {
		m, err := fitMixture(features, k, e.searchRestarts, rng)
		if err != nil {
			e.log().Warn(ctx, "candidate tier count skipped", logger.Int("k", k), logger.Error(err))
			continue
		}
		bic := m.bic(len(board))
		if bestK == 0 || bic < bestBIC {
			bestK, bestBIC = k, bic
		}
	}
	if bestK == 0 {
		return nil, fmt.Errorf("every candidate tier count produced a degenerate fit: %w", ErrClusteringFailed)
	}

	// Final fit with more restarts, since this result is kept.
	final, err := fitMixture(features, bestK, e.finalRestarts, rng)
	if err != nil {
		return nil, fmt.Errorf("final fit with %d tiers failed: %w", bestK, ErrClusteringFailed)
	}
	labels, confidence := final.posteriors(features)

	// Raw cluster labels are arbitrary; order them by mean consensus rank so
	// tier 1 is always the best group. Mandatory, or labels are meaningless
	// across runs.
	tierOf := relabelByMeanRank(board, labels, bestK)
	for i := range board {
		board[i].Tier = tierOf[labels[i]]
		board[i].TierConfidence = fmt.Sprintf("%.2f%%", confidence[i]*100)
	}

	e.log().Debug(ctx, "tier assignment complete",
		logger.Int("players", len(board)),
		logger.Int("tiers", bestK),
		logger.Float64("bic", bestBIC),
	)
	return board, nil
}

// featureMatrix builds the (consensus, best, worst) observation matrix.
func featureMatrix(board []model.RankedPlayerRow) *mat.Dense {
	features := mat.NewDense(len(board), featureCount, nil)
	for i, row := range board {
		features.Set(i, 0, row.ConsensusRank)
		features.Set(i, 1, row.BestRank)
		features.Set(i, 2, row.WorstRank)
	}
	return features
}

// standardize scales each column to zero mean and unit variance in place so
// spread-of-opinion features weigh comparably to the central rank.
func standardize(m *mat.Dense) {
	n, d := m.Dims()
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, m)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, (m.At(i, j)-mean)/std)
		}
	}
}

// distinctRows counts unique observations; a mixture can carry at most that
// many components.
func distinctRows(m *mat.Dense) int {
	n, _ := m.Dims()
	seen := make(map[[featureCount]float64]struct{}, n)
	for i := 0; i < n; i++ {
		var key [featureCount]float64
		for j := 0; j < featureCount; j++ {
			key[j] = m.At(i, j)
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

// relabelByMeanRank maps raw cluster labels to tier numbers in ascending
// order of each cluster's mean consensus rank. A component that received no
// hard assignment has no mean; it is dropped and the tier numbers of the
// populated clusters stay contiguous from 1.
func relabelByMeanRank(board []model.RankedPlayerRow, labels []int, k int) map[int]int {
	sum := make([]float64, k)
	count := make([]float64, k)
	for i, l := range labels {
		sum[l] += board[i].ConsensusRank
		count[l]++
	}
	order := make([]int, 0, k)
	for j := 0; j < k; j++ {
		if count[j] > 0 {
			order = append(order, j)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		ma := sum[order[a]] / count[order[a]]
		mb := sum[order[b]] / count[order[b]]
		return ma < mb
	})
	tierOf := make(map[int]int, len(order))
	for tier, label := range order {
		tierOf[label] = tier + 1
	}
	return tierOf
}

func (e *Engine) log() logger.Logger {
	if e.logger == nil {
		e.logger = logger.Get().Named("tiers")
	}
	return e.logger
}
