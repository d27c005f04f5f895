package model

import (
	"errors"
	"strings"
)

// FailureKind classifies why an analysis could not complete normally.
type FailureKind string

const (
	// FailureFetch covers network errors, timeouts and non-200 responses.
	FailureFetch FailureKind = "fetch-error"
	// FailureParse means the markup or CSV could not be read.
	FailureParse FailureKind = "parse-error"
	// FailureEmptyInput means there was nothing to analyze.
	FailureEmptyInput FailureKind = "empty-input"
)

// SentinelPrefix starts every failure string shown to users.
const SentinelPrefix = "Error: "

// Failure is the tagged error result of a pipeline stage.
// It implements error so it can travel through ordinary error returns,
// and callers recover it with errors.As.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// NewFailure creates a Failure of the given kind.
func NewFailure(kind FailureKind, detail string) *Failure {
	return &Failure{Kind: kind, Detail: strings.TrimSpace(detail)}
}

// Error implements error.
func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Detail
}

// Sentinel returns the user facing form, always starting with "Error: ".
func (f *Failure) Sentinel() string {
	return SentinelPrefix + f.Detail
}

// Fatal reports whether the failure stops the pipeline.
// Empty input still produces a report with empty results.
func (f *Failure) Fatal() bool {
	return f.Kind != FailureEmptyInput
}

// AsFailure extracts a *Failure from err, if there is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsSentinel reports whether s is a failure string produced by Sentinel.
func IsSentinel(s string) bool {
	return strings.HasPrefix(s, SentinelPrefix)
}
