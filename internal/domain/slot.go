package domain

import (
	"fmt"
	"slices"
)

const (
	// NotificationTitle is the title of every quote reminder.
	NotificationTitle = "Motivation"

	// NotificationCategory groups quote reminders on the device.
	NotificationCategory = "Motivation"

	slotIdentifierPrefix = "motivation_daily_"
)

// NotificationSlot pairs a daily firing time with the quote it shows.
// Slots are computed per scheduling request and never persisted here.
type NotificationSlot struct {
	Time       TimeOfDay `json:"time"`
	Quote      Quote     `json:"quote"`
	Identifier string    `json:"identifier"`
}

// Notification is the registration handed to a notification center.
type Notification struct {
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	Time       TimeOfDay `json:"time"`
	Repeats    bool      `json:"repeats"`
	QuoteID    int       `json:"quoteId"`
}

// Notification builds the daily-repeating registration for the slot.
func (s NotificationSlot) Notification() Notification {
	return Notification{
		Identifier: s.Identifier,
		Title:      NotificationTitle,
		Body:       s.Quote.NotificationBody(),
		Category:   NotificationCategory,
		Time:       s.Time,
		Repeats:    true,
		QuoteID:    s.Quote.ID,
	}
}

// SlotIdentifier derives a registration id from the firing time, so
// rescheduling the same time replaces rather than duplicates it.
func SlotIdentifier(t TimeOfDay) string {
	return fmt.Sprintf("%s%d_%d", slotIdentifierPrefix, t.Hour, t.Minute)
}

// ComputeSlotTimes spreads count firing times evenly from start to end.
//
// A count of one yields only start; zero or negative yields nothing. The
// interval is (end-start)/(count-1) minutes, truncated, so rounding can map
// several slots to the same minute. Duplicates are dropped and the result
// is sorted, so callers must read its length rather than assume count.
//
// Callers must reject end <= start before calling.
func ComputeSlotTimes(start, end TimeOfDay, count int) []TimeOfDay {
	switch {
	case count <= 0:
		return []TimeOfDay{}
	case count == 1:
		return []TimeOfDay{start}
	}

	startMin := start.Minutes()
	interval := (end.Minutes() - startMin) / (count - 1)

	seen := make(map[TimeOfDay]struct{}, count)
	slots := make([]TimeOfDay, 0, count)

	for i := range count {
		t := timeOfDayFromMinutes(startMin + i*interval)
		if _, dup := seen[t]; dup {
			continue
		}

		seen[t] = struct{}{}
		slots = append(slots, t)
	}

	slices.SortFunc(slots, func(a, b TimeOfDay) int {
		return a.Minutes() - b.Minutes()
	})

	return slots
}

// ScheduleSlots pairs slot i with quotes[i % len(quotes)].
// quotes must be non-empty; an empty list yields no slots.
func ScheduleSlots(times []TimeOfDay, quotes []Quote) []NotificationSlot {
	if len(quotes) == 0 {
		return []NotificationSlot{}
	}

	slots := make([]NotificationSlot, len(times))
	for i, t := range times {
		slots[i] = NotificationSlot{
			Time:       t,
			Quote:      quotes[i%len(quotes)],
			Identifier: SlotIdentifier(t),
		}
	}

	return slots
}
