// Package tradevalue converts linear consensus ranks into a bounded,
// nonlinear trade value score.
package tradevalue

// Option applies a configuration option to the Curve.
type Option func(*Curve)

// WithCeiling anchors the value of the best-ranked player.
func WithCeiling(ceiling float64) Option {
	return func(c *Curve) {
		if ceiling > 0 {
			c.ceiling = ceiling
		}
	}
}

// WithStarterCutoff sets the rank where the steep piece ends; typically the
// number of roster starters league-wide.
func WithStarterCutoff(rank int) Option {
	return func(c *Curve) {
		if rank > 1 {
			c.starterCutoff = rank
		}
	}
}

// WithSteepLoss sets the fraction of value lost across the starter piece.
func WithSteepLoss(loss float64) Option {
	return func(c *Curve) {
		if loss > 0 && loss < 1 {
			c.steepLoss = loss
		}
	}
}

// WithTailLoss sets the fraction of remaining value lost across the tail
// piece's span.
func WithTailLoss(loss float64) Option {
	return func(c *Curve) {
		if loss > 0 && loss < 1 {
			c.tailLoss = loss
		}
	}
}

// WithTailSpan sets the number of ranks the tail loss is spread over.
func WithTailSpan(span int) Option {
	return func(c *Curve) {
		if span > 0 {
			c.tailSpan = span
		}
	}
}
