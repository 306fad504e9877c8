package config

import "errors"

// Sentinel errors for formula configuration, matchable with errors.Is from
// callers.
var (
	ErrInvalidConfig = errors.New("formula config validation failed")
	ErrLoadConfig    = errors.New("formula config load failed")
)
