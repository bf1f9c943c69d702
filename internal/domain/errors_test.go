package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrUnauthorized,
		ErrDecoding,
		ErrPermissionDenied,
		ErrInvalidTimeRange,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matches []error
		message string
	}{
		{
			name:    "not found",
			err:     NewNotFoundError("quote history", "device-1"),
			matches: []error{ErrNotFound},
			message: `quote history with id "device-1" not found`,
		},
		{
			name:    "conflict with details",
			err:     NewConflictErrorWithDetails("schedule", "illegal transition", "idle -> scheduled"),
			matches: []error{ErrConflict},
			message: "schedule conflict: illegal transition (idle -> scheduled)",
		},
		{
			name:    "validation",
			err:     NewValidationError("howMany", "must be between 1 and 15"),
			matches: []error{ErrValidation},
			message: "validation failed for howMany: must be between 1 and 15",
		},
		{
			name:    "time range",
			err:     NewTimeRangeError(MustTimeOfDay(18, 0), MustTimeOfDay(9, 0)),
			matches: []error{ErrInvalidTimeRange, ErrValidation},
			message: "end time 09:00 must be after start time 18:00",
		},
		{
			name:    "permission denied",
			err:     NewPermissionDeniedError("device-1"),
			matches: []error{ErrPermissionDenied, ErrForbidden},
			message: PermissionSettingsMessage,
		},
		{
			name:    "unavailable",
			err:     NewUnavailableError("quote-api", "timeout"),
			matches: []error{ErrUnavailable},
			message: `service "quote-api" unavailable: timeout`,
		},
		{
			name:    "decoding",
			err:     NewDecodingError("quote-api", errors.New("unexpected EOF")),
			matches: []error{ErrDecoding},
			message: "Data error: quote-api: unexpected EOF",
		},
		{
			name:    "unauthorized default message",
			err:     NewUnauthorizedError(""),
			matches: []error{ErrUnauthorized},
			message: "Invalid email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("scheduling: %w", tt.err)
			for _, sentinel := range tt.matches {
				assert.ErrorIs(t, wrapped, sentinel)
			}
		})
	}
}

func TestIsFetchFailure(t *testing.T) {
	assert.True(t, IsFetchFailure(NewUnavailableError("quote-api", "")))
	assert.True(t, IsFetchFailure(NewDecodingError("quote-api", nil)))
	assert.False(t, IsFetchFailure(NewValidationError("page", "must be positive")))
	assert.False(t, IsFetchFailure(nil))
}

func TestDecodingError_UnwrapsCause(t *testing.T) {
	cause := errors.New("invalid character")
	err := NewDecodingError("quote-api", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDecoding(err))
}
