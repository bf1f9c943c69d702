package domain

import "time"

// Widget timeline defaults.
const (
	DefaultWidgetEntryInterval  = 4 * time.Hour
	DefaultWidgetTimelineSpan   = 24 * time.Hour
	DefaultWidgetCacheTTL       = 24 * time.Hour
	DefaultWidgetRetryWithCache = 30 * time.Minute
	DefaultWidgetRetryNoCache   = time.Hour
)

// WidgetEntry is one quote shown from Date until the next entry.
type WidgetEntry struct {
	Date  time.Time `json:"date"`
	Quote Quote     `json:"quote"`
}

// WidgetTimeline is what the home-screen widget renders until RefreshAt.
type WidgetTimeline struct {
	Entries   []WidgetEntry `json:"entries"`
	RefreshAt time.Time     `json:"refreshAt"`
	Fallback  bool          `json:"fallback"`
}

// CachedQuotes is the widget's last successful fetch.
type CachedQuotes struct {
	Quotes   []Quote   `json:"quotes"`
	CachedAt time.Time `json:"cachedAt"`
}

// Fresh reports whether the cache is younger than ttl and holds quotes.
func (c CachedQuotes) Fresh(now time.Time, ttl time.Duration) bool {
	return len(c.Quotes) > 0 && now.Sub(c.CachedAt) < ttl
}

// BuildWidgetTimeline lays out one entry every interval across span,
// starting at now. The entry at offset k*interval shows quotes[k % n].
// The timeline asks to be refreshed once span has elapsed.
func BuildWidgetTimeline(now time.Time, quotes []Quote, interval, span time.Duration) WidgetTimeline {
	timeline := WidgetTimeline{RefreshAt: now.Add(span)}
	if len(quotes) == 0 || interval <= 0 {
		return timeline
	}

	for k := 0; time.Duration(k)*interval < span; k++ {
		timeline.Entries = append(timeline.Entries, WidgetEntry{
			Date:  now.Add(time.Duration(k) * interval),
			Quote: quotes[k%len(quotes)],
		})
	}

	return timeline
}

// SingleEntryTimeline shows one quote and retries after retry.
func SingleEntryTimeline(now time.Time, quote Quote, retry time.Duration) WidgetTimeline {
	return WidgetTimeline{
		Entries:   []WidgetEntry{{Date: now, Quote: quote}},
		RefreshAt: now.Add(retry),
	}
}
