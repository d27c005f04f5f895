package config

import "errors"

// Configuration validation errors returned by Validate and RequireSource.
var (
	// ErrNoTarget is returned when neither a URL nor --csv was given.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --csv")

	// ErrInvalidTimeout is returned when the timeout is outside 1s to 5m.
	ErrInvalidTimeout = errors.New("invalid timeout: must be between 1s and 5m")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidItemLimit is returned when the item limit is negative.
	ErrInvalidItemLimit = errors.New("invalid item limit: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --html is set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown or --html")

	// ErrUnknownStrategy is returned for an unrecognized extractor name.
	ErrUnknownStrategy = errors.New("unknown extraction strategy")

	// ErrUnknownFormula is returned for an unrecognized formula preset.
	ErrUnknownFormula = errors.New("unknown health score formula")

	// ErrUnknownSampleMode is returned for an unrecognized sample mode.
	ErrUnknownSampleMode = errors.New("unknown sentiment sample mode")

	// ErrInvalidSampleSize is returned when a partial sample mode has no size.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
