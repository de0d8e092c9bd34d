package domain

import "errors"

// Sentinel errors for the failure kinds the CLI boundary knows how to
// explain. Everything else propagates as a generic failure.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrConfigMalformed    = errors.New("config file is not valid YAML")
	ErrConfigMissingField = errors.New("config is missing a required field")
	ErrAuthInvalid        = errors.New("invalid GitHub authentication token")
	ErrOrgNotFound        = errors.New("GitHub organization not found")
	ErrRepoNotFound       = errors.New("GitHub repository not found")
	ErrNoHistoricalData   = errors.New("no historical data")
)
