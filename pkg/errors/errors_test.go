package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneStillMatchesSentinel(t *testing.T) {
	err := Clone(ErrMissingRoster, "batch b-1 has no students")
	assert.True(t, errors.Is(err, ErrMissingRoster))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "batch b-1 has no students", err.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	plain := fmt.Errorf("dial tcp: refused")
	appErr := FromError(plain)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	wrapped := fmt.Errorf("generate: %w", Clone(ErrGenerationInProgress, ""))
	assert.Equal(t, ErrGenerationInProgress.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause, "failed to list students")
	assert.Equal(t, "failed to list students: boom", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
