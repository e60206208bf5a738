package models

import "errors"

// Sentinel errors shared across the pipeline. Callers distinguish them
// with errors.Is; the HTTP layer maps each to a status code.
var (
	// ErrNotFound is returned when an identifier has no registry entry.
	ErrNotFound = errors.New("model not found")

	// ErrNotReady is returned when a model exists but its status is not
	// "ready". Distinct from ErrNotFound.
	ErrNotReady = errors.New("model not ready")

	// ErrConflict is returned when training is submitted under an
	// identifier that already has a registry entry.
	ErrConflict = errors.New("model already exists")

	// ErrBundleMissing is returned when a model's persisted bundle is
	// absent or cannot be decoded. This indicates an inconsistency
	// between the registry and the bundle store, not a caller error.
	ErrBundleMissing = errors.New("model bundle missing or corrupt")
)

// ValidationError describes invalid training input: a missing target
// column, an empty feature schema, or a malformed request. Always
// terminal for the attempt and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// EncodingError describes row data that cannot be coerced even with the
// fallback-to-zero and sentinel rules. Almost all malformed input is
// absorbed by coercion, so seeing this indicates a logic defect
// upstream (e.g. a compound value that survived sanitization).
type EncodingError struct {
	Column string
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding failed for column " + e.Column + ": " + e.Reason
}
