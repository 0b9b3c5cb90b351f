// Package tradevalue converts linear consensus ranks into a bounded,
// nonlinear trade value score.
//
// The curve is a two-piece exponential decay anchored at rank 1. The first
// piece covers the league-wide starter pool and sheds most of its value
// across it; the second piece decays more gently over bench depth and is
// continuous with the first at the cutoff rank. The boundary constants are
// a product decision, not an algorithmic one, so they are configuration.
package tradevalue

import (
	"math"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// Default curve constants. Ceiling anchors the best-ranked player; the
// starter piece loses 80% of value across ranks 1..84; the tail piece loses
// 95% of the remaining value across the next 216 ranks.
const (
	defaultCeiling       = 99.0
	defaultStarterCutoff = 84
	defaultSteepLoss     = 0.80
	defaultTailLoss      = 0.95
	defaultTailSpan      = 216
)

// Curve computes trade values from consensus ranks. The zero configuration
// produced by New is immutable after construction.
type Curve struct {
	ceiling       float64
	starterCutoff int
	steepLoss     float64
	tailLoss      float64
	tailSpan      int

	// Decay constants derived from the loss fractions; recomputed whenever
	// the configuration changes, never hard-coded.
	steepRate float64
	tailRate  float64
}

// New builds a Curve, deriving the per-rank decay constants from the
// configured fractional losses: rate = ln(1-loss)/span.
func New(opts ...Option) *Curve {
	c := &Curve{
		ceiling:       defaultCeiling,
		starterCutoff: defaultStarterCutoff,
		steepLoss:     defaultSteepLoss,
		tailLoss:      defaultTailLoss,
		tailSpan:      defaultTailSpan,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.steepRate = math.Log(1-c.steepLoss) / float64(c.starterCutoff-1)
	c.tailRate = math.Log(1-c.tailLoss) / float64(c.tailSpan)
	return c
}

// Value returns the trade value for a consensus rank, rounded onto the
// bounded display scale. It is monotonically non-increasing in rank, never
// negative, and never exceeds the rank-1 ceiling.
func (c *Curve) Value(consensusRank float64) int {
	if consensusRank < 1 {
		consensusRank = 1
	}
	var v float64
	cutoff := float64(c.starterCutoff)
	if consensusRank <= cutoff {
		v = c.ceiling * math.Exp(c.steepRate*(consensusRank-1))
	} else {
		atCutoff := c.ceiling * math.Exp(c.steepRate*(cutoff-1))
		v = atCutoff * math.Exp(c.tailRate*(consensusRank-cutoff))
	}
	rounded := int(math.Round(v))
	if rounded < 0 {
		rounded = 0
	}
	if max := int(math.Round(c.ceiling)); rounded > max {
		rounded = max
	}
	return rounded
}

// Floor returns the asymptotic floor of the tail piece. Exponential decay
// approaches zero, so the floor is zero on the display scale; exposed for
// callers that sanity-check deep-bench values.
func (c *Curve) Floor() float64 { return 0 }

// Apply annotates every row with its trade value and returns a new slice;
// the input is never mutated. An empty board is a valid "no data for this
// position" state and yields an empty board.
func (c *Curve) Apply(rows []model.RankedPlayerRow) []model.RankedPlayerRow {
	if len(rows) == 0 {
		return []model.RankedPlayerRow{}
	}
	out := make([]model.RankedPlayerRow, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].TradeValue = c.Value(out[i].ConsensusRank)
	}
	return out
}
