package domain

import (
	"fmt"
	"time"
)

// ScheduleState is a step in the reminder scheduling lifecycle.
type ScheduleState string

const (
	ScheduleIdle              ScheduleState = "idle"
	SchedulePermissionPending ScheduleState = "permission_pending"
	SchedulePermissionGranted ScheduleState = "permission_granted"
	SchedulePermissionDenied  ScheduleState = "permission_denied"
	ScheduleScheduling        ScheduleState = "scheduling"
	ScheduleScheduled         ScheduleState = "scheduled"
)

// scheduleTransitions lists the legal next states for each state.
// Scheduling falls back to PermissionGranted when registration fails, and
// every state except Scheduling can restart a request or be disabled.
var scheduleTransitions = map[ScheduleState][]ScheduleState{
	ScheduleIdle:              {SchedulePermissionPending},
	SchedulePermissionPending: {SchedulePermissionGranted, SchedulePermissionDenied},
	SchedulePermissionGranted: {ScheduleScheduling, SchedulePermissionPending, ScheduleIdle},
	SchedulePermissionDenied:  {SchedulePermissionPending, ScheduleIdle},
	ScheduleScheduling:        {ScheduleScheduled, SchedulePermissionGranted},
	ScheduleScheduled:         {SchedulePermissionPending, ScheduleIdle},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s ScheduleState) CanTransitionTo(next ScheduleState) bool {
	for _, allowed := range scheduleTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Valid reports whether s is a known state.
func (s ScheduleState) Valid() bool {
	_, ok := scheduleTransitions[s]
	return ok
}

// PermissionStatus is the device's answer to the notification permission prompt.
type PermissionStatus string

const (
	PermissionNotDetermined PermissionStatus = "not_determined"
	PermissionGranted       PermissionStatus = "granted"
	PermissionDenied        PermissionStatus = "denied"
)

// Valid reports whether p is a known permission status.
func (p PermissionStatus) Valid() bool {
	switch p {
	case PermissionNotDetermined, PermissionGranted, PermissionDenied:
		return true
	}

	return false
}

// ScheduleStatus is the persisted lifecycle position of a device.
type ScheduleStatus struct {
	State     ScheduleState `json:"state"`
	Message   string        `json:"message,omitempty"`
	SlotCount int           `json:"slotCount"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewScheduleStatus is the status of a device that never enabled reminders.
func NewScheduleStatus(now time.Time) ScheduleStatus {
	return ScheduleStatus{State: ScheduleIdle, UpdatedAt: now}
}

// Transition returns the status moved to next, or a ConflictError when the
// move is illegal. The receiver is unchanged.
func (s ScheduleStatus) Transition(next ScheduleState, now time.Time) (ScheduleStatus, error) {
	if !s.State.CanTransitionTo(next) {
		return s, NewConflictErrorWithDetails("schedule", "illegal transition",
			fmt.Sprintf("%s -> %s", s.State, next))
	}

	out := ScheduleStatus{State: next, UpdatedAt: now}

	switch next {
	case SchedulePermissionDenied:
		out.Message = PermissionSettingsMessage
	case ScheduleScheduling, ScheduleScheduled:
		out.SlotCount = s.SlotCount
	}

	return out, nil
}
