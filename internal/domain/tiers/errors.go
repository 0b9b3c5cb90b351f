package tiers

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrClusteringFailed means the data was degenerate or insufficient for
	// every requested tier count. Raised instead of silently returning one
	// giant tier.
	ErrClusteringFailed = errors.New("clustering failed")
)
