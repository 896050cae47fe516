package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrEmptyPort             = errors.New("invalid port: must not be empty")
	ErrInvalidResolveTimeout = errors.New("invalid resolve timeout: must be positive")
	ErrInvalidLookupTimeout  = errors.New("invalid lookup timeout: must be positive")
	ErrInvalidMockDelay      = errors.New("invalid mock delay: must be non-negative")
	ErrEmptyBaseURL          = errors.New("invalid virustotal base url: must not be empty")
)

// ErrConfigNotFound is returned when an explicitly named config file is missing.
var ErrConfigNotFound = errors.New("configuration file not found")
