package domain

import "fmt"

const (
	// MinReminders is the fewest reminders a user can ask for.
	MinReminders = 1

	// MaxReminders is the most reminders a user can ask for.
	MaxReminders = 15

	// DefaultReminderCount is used before the user edits preferences.
	DefaultReminderCount = 10
)

// ReminderPreferences is the user's reminder setup for one device.
type ReminderPreferences struct {
	HowMany   int       `json:"howMany"`
	StartTime TimeOfDay `json:"startTime"`
	EndTime   TimeOfDay `json:"endTime"`
}

// DefaultReminderPreferences returns 10 reminders between 09:00 and 22:00.
func DefaultReminderPreferences() ReminderPreferences {
	return ReminderPreferences{
		HowMany:   DefaultReminderCount,
		StartTime: MustTimeOfDay(9, 0),
		EndTime:   MustTimeOfDay(22, 0),
	}
}

// ReminderBounds limits how many reminders may be requested.
type ReminderBounds struct {
	Min int
	Max int
}

// DefaultReminderBounds is [1, 15].
func DefaultReminderBounds() ReminderBounds {
	return ReminderBounds{Min: MinReminders, Max: MaxReminders}
}

// Validate checks the preferences against bounds. An end time that is not
// after the start time yields a TimeRangeError.
func (p ReminderPreferences) Validate(bounds ReminderBounds) error {
	if p.HowMany < bounds.Min || p.HowMany > bounds.Max {
		return NewValidationErrorWithValue("howMany",
			fmt.Sprintf("must be between %d and %d", bounds.Min, bounds.Max), p.HowMany)
	}

	if !p.StartTime.Before(p.EndTime) {
		return NewTimeRangeError(p.StartTime, p.EndTime)
	}

	return nil
}

// SlotTimes computes the firing times for these preferences.
func (p ReminderPreferences) SlotTimes() []TimeOfDay {
	return ComputeSlotTimes(p.StartTime, p.EndTime, p.HowMany)
}
