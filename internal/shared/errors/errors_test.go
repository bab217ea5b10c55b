package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("invalid login form", "server is required")
	assert.Equal(t, "validation_error: invalid login form (server is required)", err.Error())

	err = NewUnavailableError("no snapshot yet")
	assert.Equal(t, "service_unavailable: no snapshot yet", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
}

func TestAppError_Wrap(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:6379: connection refused")
	base := NewUnavailableError("snapshot store unavailable")

	err := base.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, base, cause, "Wrap must not modify the receiver")
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", NewNotFoundError("snapshot not found"))

	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.Nil(t, GetAppError(assert.AnError))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(NewRateLimitedError("slow down")))
	assert.Equal(t, http.StatusBadRequest, StatusCode(fmt.Errorf("wrapped: %w", NewValidationError("bad"))))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(assert.AnError))
}
