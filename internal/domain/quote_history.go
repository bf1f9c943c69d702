package domain

import "time"

// DefaultRetentionWindow is how long a shown quote suppresses repeats.
const DefaultRetentionWindow = 15 * 24 * time.Hour

// QuoteHistoryEntry records one quote delivered to the user.
type QuoteHistoryEntry struct {
	ID         int       `json:"id"`
	FetchDate  time.Time `json:"fetchDate"`
	PageNumber int       `json:"pageNumber"`
}

// PruneHistory keeps the entries still inside the retention window, that is
// entries with now - fetchDate < window. The input slice is not modified.
func PruneHistory(history []QuoteHistoryEntry, now time.Time, window time.Duration) []QuoteHistoryEntry {
	kept := make([]QuoteHistoryEntry, 0, len(history))

	for _, entry := range history {
		if now.Sub(entry.FetchDate) < window {
			kept = append(kept, entry)
		}
	}

	return kept
}

// FilterNewQuotes returns the candidates not seen within the retention
// window. If every candidate was seen recently, the unfiltered candidates are
// returned so a non-empty page never yields an empty result.
//
// The candidates slice is never mutated; the result is always a new slice.
func FilterNewQuotes(candidates []Quote, history []QuoteHistoryEntry, now time.Time, window time.Duration) []Quote {
	seen := make(map[int]struct{}, len(history))
	for _, entry := range PruneHistory(history, now, window) {
		seen[entry.ID] = struct{}{}
	}

	available := make([]Quote, 0, len(candidates))

	for _, q := range candidates {
		if _, ok := seen[q.ID]; !ok {
			available = append(available, q)
		}
	}

	if len(available) > 0 {
		return available
	}

	out := make([]Quote, len(candidates))
	copy(out, candidates)

	return out
}

// RecordShown prunes the history and appends one entry per shown quote,
// stamped with now and the page the quotes came from.
func RecordShown(
	history []QuoteHistoryEntry,
	shown []Quote,
	now time.Time,
	page int,
	window time.Duration,
) []QuoteHistoryEntry {
	updated := PruneHistory(history, now, window)

	for _, q := range shown {
		updated = append(updated, QuoteHistoryEntry{ID: q.ID, FetchDate: now, PageNumber: page})
	}

	return updated
}
