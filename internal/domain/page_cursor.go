package domain

import "time"

const (
	// DefaultPageAdvanceThreshold is the elapsed time after which the cursor moves on.
	DefaultPageAdvanceThreshold = 4 * time.Hour

	// FirstPage is the page a fresh installation starts on.
	FirstPage = 1
)

// PageCursor tracks which page of the remote quote list a feed is consuming.
type PageCursor struct {
	CurrentPage    int       `json:"currentPage"`
	LastUpdateDate time.Time `json:"lastUpdateDate"`
}

// NewPageCursor returns the cursor used when none has been persisted yet.
func NewPageCursor(page int, now time.Time) PageCursor {
	if page < FirstPage {
		page = FirstPage
	}

	return PageCursor{CurrentPage: page, LastUpdateDate: now}
}

// ShouldAdvancePage reports whether now - lastUpdate >= threshold.
func ShouldAdvancePage(lastUpdate, now time.Time, threshold time.Duration) bool {
	return now.Sub(lastUpdate) >= threshold
}

// AdvancePageCursor moves the cursor to the next page, stamped with now.
func AdvancePageCursor(cursor PageCursor, now time.Time) PageCursor {
	return PageCursor{CurrentPage: cursor.CurrentPage + 1, LastUpdateDate: now}
}
