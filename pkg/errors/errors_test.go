package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"bad request", BadRequest("bad", nil), "INVALID_ARGUMENT", http.StatusBadRequest},
		{"not found", NotFound("missing", nil), "NOT_FOUND", http.StatusNotFound},
		{"unavailable", Unavailable("down", nil), "UNAVAILABLE", http.StatusServiceUnavailable},
		{"conflict", Conflict("conflict", nil), "CONFLICT", http.StatusConflict},
		{"unauthorized", Unauthorized("denied", nil), "UNAUTHORIZED", http.StatusUnauthorized},
		{"internal", Internal("boom", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("Database connection failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	// AppError passes through, wrapped or not
	appErr := GetAppError(ErrRiderNotFound)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	wrapped := Wrap(ErrRiderNotFound, "handling request")
	assert.Equal(t, "NOT_FOUND", GetAppError(wrapped).Code)

	// Anything else becomes a generic 500
	plain := GetAppError(errors.New("surprise"))
	assert.Equal(t, "INTERNAL_ERROR", plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrInvalidCoordinates))
	assert.False(t, IsAppError(errors.New("plain")))
	assert.False(t, IsAppError(nil))
}
