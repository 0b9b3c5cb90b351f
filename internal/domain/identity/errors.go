package identity

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrDataUnavailable means the upstream identity source returned no
	// usable rows. Distinct from a legitimately empty week.
	ErrDataUnavailable = errors.New("identity data unavailable")

	// ErrIdentityUnresolvable marks a player that cannot be joined on any
	// known axis. Such rows are dropped and counted, never null-filled.
	ErrIdentityUnresolvable = errors.New("identity unresolvable")
)
