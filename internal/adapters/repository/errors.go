package repository

import "errors"

// Sentinel kinds for board store errors.
var (
	ErrNotFound = errors.New("board not found")
)
