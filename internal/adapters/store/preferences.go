// Package store persists device preferences on top of a ports.KeyValueStore.
// Each logical key is stored under {prefix}:{device}:{key} so one backend
// serves every device. Values are JSON, except the three reminder scalars
// which are kept as plain text.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// Logical keys. The spellings match what installed clients already hold.
const (
	KeyAppHistory     = "qouteHistory"
	KeyAppCursor      = "qoutepageInfo"
	KeyWidgetHistory  = "widgetQuoteHistory"
	KeyWidgetCursor   = "widgetPageInfo"
	KeyHowMany        = "howMany"
	KeyStartTime      = "startTime"
	KeyEndTime        = "endTime"
	KeyCachedQuotes   = "cachedWidgetQuotes"
	KeyQuotesCachedAt = "quotesLastCached"
	KeySession        = "USER_AUTH"
	KeyScheduleStatus = "scheduleStatus"
)

// Repository implements ports.PreferenceStores.
type Repository struct {
	kv     ports.KeyValueStore
	prefix string
	logger *slog.Logger
}

// NewRepository creates a repository over kv. prefix namespaces every key.
func NewRepository(kv ports.KeyValueStore, prefix string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		kv:     kv,
		prefix: prefix,
		logger: logger.With(slog.String("component", "store.Repository")),
	}
}

// ForDevice returns the preference store of one device.
func (r *Repository) ForDevice(deviceID string) ports.PreferenceStore {
	return &devicePreferences{repo: r, device: deviceID}
}

// Key returns the backend key of a device's logical key.
func (r *Repository) Key(deviceID, key string) string {
	parts := []string{deviceID, key}
	if r.prefix != "" {
		parts = append([]string{r.prefix}, parts...)
	}

	return strings.Join(parts, ":")
}

type devicePreferences struct {
	repo   *Repository
	device string
}

func historyKey(feed ports.Feed) string {
	if feed == ports.FeedWidget {
		return KeyWidgetHistory
	}

	return KeyAppHistory
}

func cursorKey(feed ports.Feed) string {
	if feed == ports.FeedWidget {
		return KeyWidgetCursor
	}

	return KeyAppCursor
}

func (p *devicePreferences) get(ctx context.Context, key string) ([]byte, error) {
	return p.repo.kv.Get(ctx, p.repo.Key(p.device, key))
}

func (p *devicePreferences) set(ctx context.Context, key string, value []byte) error {
	if err := p.repo.kv.Set(ctx, p.repo.Key(p.device, key), value, 0); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	return nil
}

// loadJSON decodes key into dst. Undecodable values are treated as
// missing, as if the key had never been written.
func (p *devicePreferences) loadJSON(ctx context.Context, key string, dst any) error {
	raw, err := p.get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "discarding undecodable preference",
			slog.String("device_id", p.device),
			slog.String("key", key),
			slog.Any("error", err))

		return domain.NewNotFoundError("preference", key)
	}

	return nil
}

func (p *devicePreferences) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return p.set(ctx, key, raw)
}

func (p *devicePreferences) LoadQuoteHistory(ctx context.Context, feed ports.Feed) ([]domain.QuoteHistoryEntry, error) {
	var history []domain.QuoteHistoryEntry
	if err := p.loadJSON(ctx, historyKey(feed), &history); err != nil {
		return nil, err
	}

	return history, nil
}

func (p *devicePreferences) SaveQuoteHistory(ctx context.Context, feed ports.Feed, history []domain.QuoteHistoryEntry) error {
	if history == nil {
		history = []domain.QuoteHistoryEntry{}
	}

	return p.saveJSON(ctx, historyKey(feed), history)
}

func (p *devicePreferences) LoadPageCursor(ctx context.Context, feed ports.Feed) (domain.PageCursor, error) {
	var cursor domain.PageCursor
	if err := p.loadJSON(ctx, cursorKey(feed), &cursor); err != nil {
		return domain.PageCursor{}, err
	}

	return cursor, nil
}

func (p *devicePreferences) SavePageCursor(ctx context.Context, feed ports.Feed, cursor domain.PageCursor) error {
	return p.saveJSON(ctx, cursorKey(feed), cursor)
}

// LoadReminderPreferences reads the three scalar keys. Returns
// domain.ErrNotFound when none is set; a missing or malformed key among
// set ones takes its default.
func (p *devicePreferences) LoadReminderPreferences(ctx context.Context) (domain.ReminderPreferences, error) {
	prefs := domain.DefaultReminderPreferences()
	found := 0

	if raw, err := p.get(ctx, KeyHowMany); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(string(raw))); convErr == nil {
			prefs.HowMany = n
			found++
		}
	} else if !domain.IsNotFound(err) {
		return prefs, err
	}

	for key, dst := range map[string]*domain.TimeOfDay{KeyStartTime: &prefs.StartTime, KeyEndTime: &prefs.EndTime} {
		raw, err := p.get(ctx, key)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}

			return prefs, err
		}

		if tod, parseErr := domain.ParseTimeOfDay(strings.TrimSpace(string(raw))); parseErr == nil {
			*dst = tod
			found++
		}
	}

	if found == 0 {
		return domain.DefaultReminderPreferences(), domain.NewNotFoundError("preference", "reminders")
	}

	return prefs, nil
}

func (p *devicePreferences) SaveReminderPreferences(ctx context.Context, prefs domain.ReminderPreferences) error {
	values := []struct {
		key   string
		value string
	}{
		{KeyHowMany, strconv.Itoa(prefs.HowMany)},
		{KeyStartTime, prefs.StartTime.String()},
		{KeyEndTime, prefs.EndTime.String()},
	}

	for _, v := range values {
		if err := p.set(ctx, v.key, []byte(v.value)); err != nil {
			return err
		}
	}

	return nil
}

func (p *devicePreferences) LoadScheduleStatus(ctx context.Context) (domain.ScheduleStatus, error) {
	var status domain.ScheduleStatus
	if err := p.loadJSON(ctx, KeyScheduleStatus, &status); err != nil {
		return domain.ScheduleStatus{}, err
	}

	if !status.State.Valid() {
		return domain.ScheduleStatus{}, domain.NewNotFoundError("preference", KeyScheduleStatus)
	}

	return status, nil
}

func (p *devicePreferences) SaveScheduleStatus(ctx context.Context, status domain.ScheduleStatus) error {
	return p.saveJSON(ctx, KeyScheduleStatus, status)
}

// LoadCachedQuotes needs both the quote list and its timestamp.
func (p *devicePreferences) LoadCachedQuotes(ctx context.Context) (domain.CachedQuotes, error) {
	var cache domain.CachedQuotes

	if err := p.loadJSON(ctx, KeyCachedQuotes, &cache.Quotes); err != nil {
		return domain.CachedQuotes{}, err
	}

	if err := p.loadJSON(ctx, KeyQuotesCachedAt, &cache.CachedAt); err != nil {
		return domain.CachedQuotes{}, err
	}

	return cache, nil
}

func (p *devicePreferences) SaveCachedQuotes(ctx context.Context, cache domain.CachedQuotes) error {
	if err := p.saveJSON(ctx, KeyCachedQuotes, cache.Quotes); err != nil {
		return err
	}

	return p.saveJSON(ctx, KeyQuotesCachedAt, cache.CachedAt.UTC().Format(time.RFC3339Nano))
}

func (p *devicePreferences) LoadSession(ctx context.Context) (domain.Session, error) {
	var session domain.Session
	if err := p.loadJSON(ctx, KeySession, &session); err != nil {
		return domain.Session{}, err
	}

	if session.Token == "" {
		return domain.Session{}, domain.NewNotFoundError("preference", KeySession)
	}

	return session, nil
}

func (p *devicePreferences) SaveSession(ctx context.Context, session domain.Session) error {
	return p.saveJSON(ctx, KeySession, session)
}

func (p *devicePreferences) ClearSession(ctx context.Context) error {
	err := p.repo.kv.Delete(ctx, p.repo.Key(p.device, KeySession))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}

	return nil
}
