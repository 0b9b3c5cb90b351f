// Package tiers clusters a ranked player board into ordered skill tiers.
package tiers

import "github.com/fieldgeneral/dynasty/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSeed fixes the random seed used by mixture initialization.
// Identical inputs and seed yield identical tier assignments.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithRestarts sets the number of random initializations used during the
// BIC sweep and the final fit respectively.
func WithRestarts(search, final int) Option {
	return func(e *Engine) {
		if search > 0 {
			e.searchRestarts = search
		}
		if final > 0 {
			e.finalRestarts = final
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
