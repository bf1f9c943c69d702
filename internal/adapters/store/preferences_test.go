package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/adapters/store/memory"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

func newTestRepository(t *testing.T) (*Repository, *memory.Store) {
	t.Helper()

	kv := memory.New(nil)

	return NewRepository(kv, "motivation", slog.New(slog.NewTextHandler(io.Discard, nil))), kv
}

func TestRepository_Key(t *testing.T) {
	repo, _ := newTestRepository(t)
	assert.Equal(t, "motivation:device-1:qouteHistory", repo.Key("device-1", KeyAppHistory))

	bare := NewRepository(memory.New(nil), "", nil)
	assert.Equal(t, "device-1:howMany", bare.Key("device-1", KeyHowMany))
}

func TestPreferences_NothingSaved(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	prefs := repo.ForDevice("device-1")

	_, err := prefs.LoadQuoteHistory(ctx, ports.FeedApp)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = prefs.LoadPageCursor(ctx, ports.FeedWidget)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := prefs.LoadReminderPreferences(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.DefaultReminderPreferences(), got)

	_, err = prefs.LoadScheduleStatus(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = prefs.LoadCachedQuotes(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = prefs.LoadSession(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferences_FeedsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	prefs := repo.ForDevice("device-1")
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	appHistory := []domain.QuoteHistoryEntry{{ID: 1, FetchDate: now, PageNumber: 1}}
	require.NoError(t, prefs.SaveQuoteHistory(ctx, ports.FeedApp, appHistory))
	require.NoError(t, prefs.SavePageCursor(ctx, ports.FeedApp, domain.NewPageCursor(3, now)))

	got, err := prefs.LoadQuoteHistory(ctx, ports.FeedApp)
	require.NoError(t, err)
	assert.Equal(t, appHistory, got)

	cursor, err := prefs.LoadPageCursor(ctx, ports.FeedApp)
	require.NoError(t, err)
	assert.Equal(t, 3, cursor.CurrentPage)
	assert.True(t, cursor.LastUpdateDate.Equal(now))

	_, err = prefs.LoadQuoteHistory(ctx, ports.FeedWidget)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = prefs.LoadPageCursor(ctx, ports.FeedWidget)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferences_DevicesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.ForDevice("a").SaveSession(ctx, domain.Session{Token: "tok"}))

	_, err := repo.ForDevice("b").LoadSession(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferences_EmptyHistorySavesAsList(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepository(t)
	prefs := repo.ForDevice("device-1")

	require.NoError(t, prefs.SaveQuoteHistory(ctx, ports.FeedApp, nil))

	raw, err := kv.Get(ctx, repo.Key("device-1", KeyAppHistory))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestPreferences_ReminderScalars(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepository(t)
	prefs := repo.ForDevice("device-1")

	want := domain.ReminderPreferences{
		HowMany:   5,
		StartTime: domain.MustTimeOfDay(8, 30),
		EndTime:   domain.MustTimeOfDay(20, 0),
	}
	require.NoError(t, prefs.SaveReminderPreferences(ctx, want))

	raw, err := kv.Get(ctx, repo.Key("device-1", KeyStartTime))
	require.NoError(t, err)
	assert.Equal(t, "08:30", string(raw))

	got, err := prefs.LoadReminderPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPreferences_PartialRemindersUseDefaults(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepository(t)

	require.NoError(t, kv.Set(ctx, repo.Key("device-1", KeyHowMany), []byte("3"), 0))
	require.NoError(t, kv.Set(ctx, repo.Key("device-1", KeyEndTime), []byte("not-a-time"), 0))

	got, err := repo.ForDevice("device-1").LoadReminderPreferences(ctx)
	require.NoError(t, err)

	defaults := domain.DefaultReminderPreferences()
	assert.Equal(t, 3, got.HowMany)
	assert.Equal(t, defaults.StartTime, got.StartTime)
	assert.Equal(t, defaults.EndTime, got.EndTime)
}

func TestPreferences_CorruptValuesReadAsMissing(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepository(t)

	require.NoError(t, kv.Set(ctx, repo.Key("device-1", KeyAppHistory), []byte("{broken"), 0))
	require.NoError(t, kv.Set(ctx, repo.Key("device-1", KeyScheduleStatus), []byte(`{"state":"sleeping"}`), 0))

	prefs := repo.ForDevice("device-1")

	_, err := prefs.LoadQuoteHistory(ctx, ports.FeedApp)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = prefs.LoadScheduleStatus(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferences_ScheduleStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	prefs := repo.ForDevice("device-1")
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	status := domain.NewScheduleStatus(now)
	require.NoError(t, prefs.SaveScheduleStatus(ctx, status))

	got, err := prefs.LoadScheduleStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.State, got.State)
	assert.True(t, got.UpdatedAt.Equal(now))
}

func TestPreferences_CachedQuotes(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepository(t)
	prefs := repo.ForDevice("device-1")
	cachedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	cache := domain.CachedQuotes{Quotes: domain.FallbackQuotes()[:2], CachedAt: cachedAt}
	require.NoError(t, prefs.SaveCachedQuotes(ctx, cache))

	got, err := prefs.LoadCachedQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Quotes, got.Quotes)
	assert.True(t, got.CachedAt.Equal(cachedAt))

	require.NoError(t, kv.Delete(ctx, repo.Key("device-1", KeyQuotesCachedAt)))

	_, err = prefs.LoadCachedQuotes(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferences_Session(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	prefs := repo.ForDevice("device-1")

	session := domain.Session{Token: "tok", User: domain.User{ID: 7, FullName: "Nino", Email: "nino@example.com"}}
	require.NoError(t, prefs.SaveSession(ctx, session))

	got, err := prefs.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	require.NoError(t, prefs.ClearSession(ctx))
	require.NoError(t, prefs.ClearSession(ctx))

	_, err = prefs.LoadSession(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
