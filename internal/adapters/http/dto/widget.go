package dto

import (
	"time"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// WidgetEntryResponse is one timeline entry.
type WidgetEntryResponse struct {
	Date  time.Time     `json:"date"`
	Quote QuoteResponse `json:"quote"`
}

// TimelineResponse is the body of GET /widget/timeline.
type TimelineResponse struct {
	Entries   []WidgetEntryResponse `json:"entries"`
	RefreshAt time.Time             `json:"refreshAt"`
	Fallback  bool                  `json:"fallback"`
}

// ToTimelineResponse converts a widget timeline.
func ToTimelineResponse(t domain.WidgetTimeline) TimelineResponse {
	entries := make([]WidgetEntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = WidgetEntryResponse{Date: e.Date, Quote: ToQuoteResponse(e.Quote)}
	}

	return TimelineResponse{Entries: entries, RefreshAt: t.RefreshAt, Fallback: t.Fallback}
}
