// Package errors provides standardized error handling for the training pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal pipeline errors. Any of these aborts the run and leaves the
	// artifact store untouched.
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	ErrCodeEncodingMismatch ErrorCode = "ENCODING_MISMATCH"
	ErrCodeArtifactMissing  ErrorCode = "ARTIFACT_MISSING"

	// Non-fatal: the negative sampler could not reach its target count.
	// Logged, surfaced in the report, training proceeds.
	ErrCodeSamplingShortfall ErrorCode = "SAMPLING_SHORTFALL"

	// Data-collection failures propagate unmodified and abort the run.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	// Artifact store failures during the persisting stage.
	ErrCodeArtifactWriteFailed ErrorCode = "ARTIFACT_WRITE_FAILED"

	// Persisted metadata present but failing schema validation.
	ErrCodeMetadataInvalid ErrorCode = "METADATA_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fatal     bool                   `json:"fatal"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HasCode reports whether err is a *StandardError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsFatal reports whether err aborts the pipeline. Unknown errors are fatal.
func IsFatal(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Fatal
	}
	return true
}

// NewInsufficientDataError is returned when the collected corpus is below
// the hard minimum example count.
func NewInsufficientDataError(got, min int) *StandardError {
	return &StandardError{
		Code:    ErrCodeInsufficientData,
		Message: "Not enough training examples to fit a model",
		Details: fmt.Sprintf("collected %d examples, minimum is %d", got, min),
		Fatal:   true,
		Metadata: map[string]interface{}{
			"examples": got,
			"minimum":  min,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewEncodingMismatchError is returned when a freshly encoded feature vector
// disagrees with the length recorded in persisted metadata.
func NewEncodingMismatchError(expected, got int) *StandardError {
	return &StandardError{
		Code:    ErrCodeEncodingMismatch,
		Message: "Feature vector length does not match persisted metadata",
		Details: fmt.Sprintf("metadata expects %d features, encoder produced %d", expected, got),
		Fatal:   true,
		Metadata: map[string]interface{}{
			"expected": expected,
			"got":      got,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactMissingError is returned when the model or metadata document
// is absent at evaluation time.
func NewArtifactMissingError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactMissing,
		Message:   "Persisted artifact not found",
		Details:   fmt.Sprintf("key: %s", key),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSamplingShortfallError records that the negative sampler returned fewer
// examples than requested. It is the only non-fatal error in the taxonomy.
func NewSamplingShortfallError(requested, produced int) *StandardError {
	return &StandardError{
		Code:    ErrCodeSamplingShortfall,
		Message: "Negative sampler could not reach target count",
		Details: fmt.Sprintf("requested %d negatives, produced %d", requested, produced),
		Fatal:   false,
		Metadata: map[string]interface{}{
			"requested": requested,
			"produced":  produced,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError wraps a connection-level store failure.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError wraps a failed read query against the store.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Fatal:     true,
		Metadata:  map[string]interface{}{"queryType": queryType},
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactWriteFailedError wraps a failure while persisting the artifact set.
func NewArtifactWriteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactWriteFailed,
		Message:   "Failed to write artifact",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMetadataInvalidError is returned when the metadata document fails
// schema validation on load.
func NewMetadataInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMetadataInvalid,
		Message:   "Persisted metadata document is invalid",
		Details:   details,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}
