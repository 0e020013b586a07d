package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *AppError
		code  int
		check func(error) bool
	}{
		{"validation", NewValidationError("message body is required"), http.StatusBadRequest, IsValidationError},
		{"not found", NewNotFoundError("ticket not found", "id=9"), http.StatusNotFound, IsNotFoundError},
		{"conflict", NewConflictError("ticket has messages, close it instead"), http.StatusConflict, IsConflictError},
		{"forbidden", NewForbiddenError("elevated role required"), http.StatusForbidden, IsForbiddenError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			wrapped := fmt.Errorf("use case: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.True(t, IsAppError(wrapped))
		})
	}
}

func TestAppError_ErrorIncludesDetails(t *testing.T) {
	assert.Equal(t, "not_found: ticket not found (id=9)", NewNotFoundError("ticket not found", "id=9").Error())
	assert.Equal(t, "conflict: busy", NewConflictError("busy").Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'T2025-0001' for key 'uk_number'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: tickets.number")))
	assert.False(t, IsDuplicateError(errors.New("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}

func TestDeliveryError(t *testing.T) {
	cause := errors.New("smtp: 421 service not available")
	err := fmt.Errorf("sweep: %w", NewDeliveryError(ChannelEmail, "ops@example.com", cause))

	assert.True(t, IsDeliveryError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsAppError(err))
	assert.Contains(t, err.Error(), "email delivery to ops@example.com failed")
}
