package sleeper

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrLeagueUnavailable means the platform returned no usable league
	// data. Distinct from a player simply being unrostered.
	ErrLeagueUnavailable = errors.New("league data unavailable")

	// ErrBadStatus marks a non-200 API response.
	ErrBadStatus = errors.New("unexpected response status")
)
