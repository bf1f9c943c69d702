package dto

import (
	"time"

	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
)

// PreferencesRequest is the body of PUT /reminders/preferences. Bounds on
// howMany are enforced by the service, which owns the configured range.
type PreferencesRequest struct {
	HowMany   int    `json:"howMany"   validate:"required,gte=1"`
	StartTime string `json:"startTime" validate:"required,timeofday"`
	EndTime   string `json:"endTime"   validate:"required,timeofday"`
}

// ToDomain converts a validated request.
func (r PreferencesRequest) ToDomain() (domain.ReminderPreferences, error) {
	start, err := domain.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return domain.ReminderPreferences{}, err
	}

	end, err := domain.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return domain.ReminderPreferences{}, err
	}

	return domain.ReminderPreferences{HowMany: r.HowMany, StartTime: start, EndTime: end}, nil
}

// ScheduleRequest is the optional body of POST /reminders/schedule. An
// empty body schedules with the saved preferences.
type ScheduleRequest struct {
	Preferences *PreferencesRequest `json:"preferences" validate:"omitempty"`
}

// PreferencesResponse is the body of the preferences endpoints.
type PreferencesResponse struct {
	HowMany   int    `json:"howMany"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToPreferencesResponse converts domain preferences.
func ToPreferencesResponse(p domain.ReminderPreferences) PreferencesResponse {
	return PreferencesResponse{HowMany: p.HowMany, StartTime: p.StartTime.String(), EndTime: p.EndTime.String()}
}

// StatusResponse is the body of GET /reminders/status.
type StatusResponse struct {
	State     string    `json:"state"`
	Message   string    `json:"message,omitempty"`
	SlotCount int       `json:"slotCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToStatusResponse converts a schedule status.
func ToStatusResponse(s domain.ScheduleStatus) StatusResponse {
	return StatusResponse{State: string(s.State), Message: s.Message, SlotCount: s.SlotCount, UpdatedAt: s.UpdatedAt}
}

// SlotResponse is one scheduled reminder.
type SlotResponse struct {
	Identifier string        `json:"identifier"`
	Time       string        `json:"time"`
	Quote      QuoteResponse `json:"quote"`
}

// ScheduleResponse is the body of POST /reminders/schedule.
type ScheduleResponse struct {
	Status      StatusResponse      `json:"status"`
	Preferences PreferencesResponse `json:"preferences"`
	Slots       []SlotResponse      `json:"slots"`
	Fallback    bool                `json:"fallback"`
}

// ToScheduleResponse converts a scheduling result.
func ToScheduleResponse(r *app.ScheduleResult) ScheduleResponse {
	slots := make([]SlotResponse, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = SlotResponse{Identifier: s.Identifier, Time: s.Time.String(), Quote: ToQuoteResponse(s.Quote)}
	}

	return ScheduleResponse{
		Status:      ToStatusResponse(r.Status),
		Preferences: ToPreferencesResponse(r.Preferences),
		Slots:       slots,
		Fallback:    r.Fallback,
	}
}

// NotificationResponse is one pending registration.
type NotificationResponse struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Category   string `json:"category"`
	Time       string `json:"time"`
	Repeats    bool   `json:"repeats"`
	QuoteID    int    `json:"quoteId"`
}

// PendingResponse is the body of GET /reminders/pending.
type PendingResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Count         int                    `json:"count"`
}

// ToPendingResponse converts pending notifications.
func ToPendingResponse(pending []domain.Notification) PendingResponse {
	out := make([]NotificationResponse, len(pending))
	for i, n := range pending {
		out[i] = NotificationResponse{
			Identifier: n.Identifier,
			Title:      n.Title,
			Body:       n.Body,
			Category:   n.Category,
			Time:       n.Time.String(),
			Repeats:    n.Repeats,
			QuoteID:    n.QuoteID,
		}
	}

	return PendingResponse{Notifications: out, Count: len(out)}
}

// PermissionRequest is the body of PUT /notifications/permission.
type PermissionRequest struct {
	Status string `json:"status" validate:"required,oneof=granted denied not_determined"`
}
