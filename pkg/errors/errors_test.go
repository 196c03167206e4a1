package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorPreservesTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("student"))

	appErr := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "student not found", appErr.Message)
}

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestIsComparesCodes(t *testing.T) {
	assert.True(t, Is(Validation("bad weekday"), ErrValidation))
	assert.False(t, Is(Validation("bad weekday"), ErrNotFound))
	assert.False(t, Is(nil, ErrNotFound))
	assert.False(t, Is(sql.ErrNoRows, ErrNotFound))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrRecognition, "face service down")
	assert.Equal(t, "face service down", clone.Message)
	assert.Equal(t, "face recognition failed", ErrRecognition.Message)
}
