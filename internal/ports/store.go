package ports

import (
	"context"
	"time"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// KeyValueStore is a blob store for preference values. Values are opaque;
// the preference repository owns their encoding.
type KeyValueStore interface {
	// Get returns the stored value.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// Feed names an independent quote stream with its own cursor and history.
type Feed string

const (
	// FeedApp is consumed by the interactive app and reminder scheduling.
	FeedApp Feed = "app"

	// FeedWidget is consumed by the home-screen widget refresh.
	FeedWidget Feed = "widget"
)

// Valid reports whether f is a known feed.
func (f Feed) Valid() bool {
	return f == FeedApp || f == FeedWidget
}

// PreferenceStore exposes typed get/set methods per logical key for a single
// device. Load methods return domain.ErrNotFound when nothing was saved yet.
type PreferenceStore interface {
	LoadQuoteHistory(ctx context.Context, feed Feed) ([]domain.QuoteHistoryEntry, error)
	SaveQuoteHistory(ctx context.Context, feed Feed, history []domain.QuoteHistoryEntry) error

	LoadPageCursor(ctx context.Context, feed Feed) (domain.PageCursor, error)
	SavePageCursor(ctx context.Context, feed Feed, cursor domain.PageCursor) error

	LoadReminderPreferences(ctx context.Context) (domain.ReminderPreferences, error)
	SaveReminderPreferences(ctx context.Context, prefs domain.ReminderPreferences) error

	LoadScheduleStatus(ctx context.Context) (domain.ScheduleStatus, error)
	SaveScheduleStatus(ctx context.Context, status domain.ScheduleStatus) error

	LoadCachedQuotes(ctx context.Context) (domain.CachedQuotes, error)
	SaveCachedQuotes(ctx context.Context, cache domain.CachedQuotes) error

	LoadSession(ctx context.Context) (domain.Session, error)
	SaveSession(ctx context.Context, session domain.Session) error
	ClearSession(ctx context.Context) error
}

// PreferenceStores resolves the store of one device.
type PreferenceStores interface {
	ForDevice(deviceID string) PreferenceStore
}
