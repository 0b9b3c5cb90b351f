package config

import (
	"errors"
)

// Load failures split into two kinds so callers can tell a config that
// never loaded from one that loaded but does not describe a runnable
// service. Both support errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
