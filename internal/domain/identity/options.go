// Package identity builds the canonical mapping between roster-platform,
// rankings-provider, and stats-provider player identifiers.
package identity

import "github.com/fieldgeneral/dynasty/pkg/logger"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithTeamAliases merges extra franchise-code aliases over the defaults.
// Useful when a new provider ships yet another spelling of a team code.
func WithTeamAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		if len(aliases) == 0 {
			return
		}
		merged := make(map[string]string, len(defaultTeamAliases)+len(aliases))
		for k, v := range defaultTeamAliases {
			merged[k] = v
		}
		for k, v := range aliases {
			merged[k] = v
		}
		r.teamAliases = merged
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
