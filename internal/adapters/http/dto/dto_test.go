package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:         http.StatusNotFound,
		ErrorCodeConflict:         http.StatusConflict,
		ErrorCodeValidation:       http.StatusBadRequest,
		ErrorCodeInvalidTimeRange: http.StatusBadRequest,
		ErrorCodeBadRequest:       http.StatusBadRequest,
		ErrorCodeForbidden:        http.StatusForbidden,
		ErrorCodePermissionDenied: http.StatusForbidden,
		ErrorCodeUnauthorized:     http.StatusUnauthorized,
		ErrorCodeUnavailable:      http.StatusServiceUnavailable,
		ErrorCodeBadGateway:       http.StatusBadGateway,
		ErrorCodeTimeout:          http.StatusGatewayTimeout,
		ErrorCodeInternal:         http.StatusInternalServerError,
		"SOMETHING_ELSE":          http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func TestMapDomainError(t *testing.T) {
	nine := domain.MustTimeOfDay(9, 0)
	wrapped := func(err error) error { return fmt.Errorf("validate failed: %w", err) }

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "permission denied carries settings message",
			err:        wrapped(domain.NewPermissionDeniedError("device-1")),
			wantStatus: http.StatusForbidden,
			wantCode:   ErrorCodePermissionDenied,
			wantMsg:    domain.PermissionSettingsMessage,
		},
		{
			name:       "invalid time range",
			err:        wrapped(domain.NewTimeRangeError(nine, nine)),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidTimeRange,
			wantMsg:    "end time 09:00 must be after start time 09:00",
		},
		{
			name:       "validation",
			err:        domain.NewValidationError("password_confirmation", "Passwords do not match"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
			wantMsg:    "Passwords do not match",
		},
		{
			name:       "unauthorized",
			err:        domain.NewUnauthorizedError(""),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrorCodeUnauthorized,
			wantMsg:    "Invalid email or password",
		},
		{
			name:       "not found",
			err:        domain.NewNotFoundError("session", "device-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
		},
		{
			name:       "conflict",
			err:        domain.NewConflictError("schedule", "illegal transition"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrorCodeConflict,
		},
		{
			name:       "forbidden",
			err:        domain.NewForbiddenError("schedule reminders", "not answered"),
			wantStatus: http.StatusForbidden,
			wantCode:   ErrorCodeForbidden,
		},
		{
			name:       "decoding",
			err:        domain.NewDecodingError("quote-api", errors.New("unexpected EOF")),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeBadGateway,
		},
		{
			name:       "unavailable",
			err:        domain.NewUnavailableError("auth-api", "circuit open"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeUnavailable,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("listing: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   ErrorCodeTimeout,
		},
		{
			name:       "unknown hides details",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
			wantMsg:    "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	_, resp := MapDomainError(domain.NewValidationErrorWithValue("howMany", "must be between 1 and 15", 16))

	assert.Equal(t, map[string]string{"howMany": "must be between 1 and 15"}, resp.Error.Details)
}

func TestRespondWithError_IncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextKeyRequestID, "req-1")

	RespondWithError(c, domain.NewPermissionDeniedError("device-1"))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, ErrorCodePermissionDenied, resp.Error.Code)
}

func TestAbortWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	AbortWithErrorCode(c, ErrorCodeBadRequest, "missing device")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, TraceID(c))
}

func TestBindAndValidate_Preferences(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
		wantBind   bool
	}{
		{name: "valid", body: `{"howMany":5,"startTime":"09:00","endTime":"17:00"}`},
		{name: "bad time", body: `{"howMany":5,"startTime":"9am","endTime":"17:00"}`, wantFields: []string{"startTime"}},
		{name: "missing fields", body: `{}`, wantFields: []string{"howMany", "startTime", "endTime"}},
		{name: "malformed", body: `{"howMany":`, wantBind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req PreferencesRequest

			err := BindAndValidate(c, &req)

			switch {
			case tt.wantBind:
				require.ErrorIs(t, err, ErrBinding)
			case len(tt.wantFields) > 0:
				require.ErrorIs(t, err, ErrValidation)

				fields := ValidationErrors(err)
				for _, f := range tt.wantFields {
					assert.Contains(t, fields, f)
				}
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestBindQueryAndValidate_Feed(t *testing.T) {
	for feed, ok := range map[string]bool{"": true, "app": true, "widget": true, "email": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/quotes?feed="+feed, nil)

		var q QuotesQuery

		err := BindQueryAndValidate(c, &q)
		if ok {
			assert.NoError(t, err, feed)
		} else {
			assert.Equal(t, map[string]string{"feed": "must be one of: app widget"}, ValidationErrors(err))
		}
	}
}

func TestRespondWithBindError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", nil)

	RespondWithBindError(c, fmt.Errorf("%w: EOF", ErrBinding))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeBadRequest)
}

func TestPreferencesRequest_ToDomain(t *testing.T) {
	prefs, err := PreferencesRequest{HowMany: 3, StartTime: "08:30", EndTime: "20:15"}.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, domain.ReminderPreferences{
		HowMany:   3,
		StartTime: domain.MustTimeOfDay(8, 30),
		EndTime:   domain.MustTimeOfDay(20, 15),
	}, prefs)
	assert.Equal(t, PreferencesResponse{HowMany: 3, StartTime: "08:30", EndTime: "20:15"}, ToPreferencesResponse(prefs))
}

func TestToScheduleResponse(t *testing.T) {
	q := domain.Quote{ID: 9, Author: "A", Content: "C"}
	slot := domain.NotificationSlot{Time: domain.MustTimeOfDay(9, 0), Quote: q, Identifier: "motivation_daily_9_0"}

	resp := ToScheduleResponse(&app.ScheduleResult{
		Status: domain.ScheduleStatus{State: domain.ScheduleScheduled, SlotCount: 1},
		Slots:  []domain.NotificationSlot{slot},
	})

	assert.Equal(t, "scheduled", resp.Status.State)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:00", resp.Slots[0].Time)
	assert.Equal(t, 9, resp.Slots[0].Quote.ID)
}

func TestToQuotesResponse_NeverNull(t *testing.T) {
	resp := ToQuotesResponse(&app.FeedResult{Feed: "app", Page: 1})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"quotes":[]`)
}
