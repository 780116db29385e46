package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := NewInsufficientDataError(10, 50)
	assert.True(t, HasCode(err, ErrCodeInsufficientData))
	assert.False(t, HasCode(err, ErrCodeArtifactMissing))
	assert.False(t, HasCode(nil, ErrCodeInsufficientData))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeInsufficientData))
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading model: %w", NewArtifactMissingError("latest"))
	assert.True(t, HasCode(err, ErrCodeArtifactMissing))
}

func TestFatality(t *testing.T) {
	assert.True(t, IsFatal(NewInsufficientDataError(10, 50)))
	assert.True(t, IsFatal(NewEncodingMismatchError(13, 12)))
	assert.True(t, IsFatal(NewArtifactMissingError("latest")))
	assert.True(t, IsFatal(NewQueryExecutionFailedError("applications", fmt.Errorf("timeout"))))

	// A shortfall is the one recoverable condition.
	assert.False(t, IsFatal(NewSamplingShortfallError(30, 12)))
}

func TestErrorMessages(t *testing.T) {
	err := NewInsufficientDataError(10, 50)
	assert.Contains(t, err.Error(), "INSUFFICIENT_DATA")

	err = NewEncodingMismatchError(13, 12)
	assert.Contains(t, err.Error(), "ENCODING_MISMATCH")
	assert.Contains(t, err.Details, "13")
	assert.Contains(t, err.Details, "12")
}
