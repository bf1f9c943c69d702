package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// FeedResult is one delivery of quotes to a feed.
type FeedResult struct {
	Feed     ports.Feed     `json:"feed"`
	Page     int            `json:"page"`
	Quotes   []domain.Quote `json:"quotes"`
	Fallback bool           `json:"fallback"`
}

// FeedConfig configures a FeedService.
type FeedConfig struct {
	Source ports.QuoteSource
	Stores ports.PreferenceStores
	Flags  ports.FeatureFlags

	RetentionWindow      time.Duration
	PageAdvanceThreshold time.Duration
	DefaultPage          int

	Clock   clock.Clock
	Metrics Metrics
	Logger  *slog.Logger
}

// FeedService delivers pages of quotes per device and feed, suppressing
// quotes shown within the retention window.
type FeedService struct {
	source ports.QuoteSource
	stores ports.PreferenceStores
	flags  ports.FeatureFlags

	retention   time.Duration
	threshold   time.Duration
	defaultPage int

	clock   clock.Clock
	metrics Metrics
	logger  *slog.Logger

	// locks serializes the cursor and history update per device and feed.
	locks *KeyedMutex
}

// NewFeedService panics when Source or Stores is missing.
func NewFeedService(cfg FeedConfig) *FeedService {
	if cfg.Source == nil || cfg.Stores == nil {
		panic("app: FeedService requires a quote source and preference stores")
	}

	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = domain.DefaultRetentionWindow
	}

	if cfg.PageAdvanceThreshold <= 0 {
		cfg.PageAdvanceThreshold = domain.DefaultPageAdvanceThreshold
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &FeedService{
		source:      cfg.Source,
		stores:      cfg.Stores,
		flags:       cfg.Flags,
		retention:   cfg.RetentionWindow,
		threshold:   cfg.PageAdvanceThreshold,
		defaultPage: max(cfg.DefaultPage, domain.FirstPage),
		clock:       cfg.Clock,
		metrics:     orNoop(cfg.Metrics),
		logger:      cfg.Logger.With(slog.String("component", "app.FeedService")),
		locks:       NewKeyedMutex(),
	}
}

// Fetch returns the next quotes for the device's feed.
//
// The current page is fetched before the cursor advances, so a due advance
// takes effect on the following call. A network or decoding failure, or an
// empty page, yields the fallback quotes and leaves the history untouched.
func (s *FeedService) Fetch(ctx context.Context, deviceID string, feed ports.Feed) (*FeedResult, error) {
	if !feed.Valid() {
		return nil, domain.NewValidationErrorWithValue("feed", "must be app or widget", string(feed))
	}

	unlock := s.locks.Lock(deviceID + "/" + string(feed))
	defer unlock()

	logger := logging.FromContextOr(ctx, s.logger).With(slog.String("feed", string(feed)))
	prefs := s.stores.ForDevice(deviceID)
	now := s.clock.Now()

	cursor, err := s.cursor(ctx, prefs, feed, now)
	if err != nil {
		return nil, err
	}

	page := cursor.CurrentPage

	if domain.ShouldAdvancePage(cursor.LastUpdateDate, now, s.threshold) {
		next := domain.AdvancePageCursor(cursor, now)
		if err := prefs.SavePageCursor(ctx, feed, next); err != nil {
			return nil, fmt.Errorf("advancing page cursor: %w", err)
		}

		s.metrics.PageAdvanced(string(feed))
		logger.DebugContext(ctx, "page cursor advanced", slog.Int("next_page", next.CurrentPage))
	}

	candidates, err := s.source.FetchPage(ctx, page)

	switch {
	case err != nil && domain.IsFetchFailure(err):
		logger.WarnContext(ctx, "quote fetch failed, serving fallback quotes",
			slog.Int("page", page), slog.Any("error", err))

		return s.fallback(feed, page), nil
	case err != nil:
		return nil, fmt.Errorf("fetching quotes page %d: %w", page, err)
	case len(candidates) == 0:
		logger.WarnContext(ctx, "empty quote page, serving fallback quotes", slog.Int("page", page))

		return s.fallback(feed, page), nil
	}

	history, err := prefs.LoadQuoteHistory(ctx, feed)
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("loading quote history: %w", err)
	}

	shown := candidates
	if s.filterEnabled(ctx, deviceID) {
		shown = domain.FilterNewQuotes(candidates, history, now, s.retention)
	}

	updated := domain.RecordShown(history, shown, now, page, s.retention)
	if err := prefs.SaveQuoteHistory(ctx, feed, updated); err != nil {
		return nil, fmt.Errorf("saving quote history: %w", err)
	}

	s.metrics.QuotesServed(string(feed), false)
	logger.DebugContext(ctx, "quotes served",
		slog.Int("page", page),
		slog.Int("candidates", len(candidates)),
		slog.Int("shown", len(shown)))

	return &FeedResult{Feed: feed, Page: page, Quotes: shown}, nil
}

// cursor loads the feed cursor, creating and persisting the first one.
func (s *FeedService) cursor(
	ctx context.Context,
	prefs ports.PreferenceStore,
	feed ports.Feed,
	now time.Time,
) (domain.PageCursor, error) {
	cursor, err := prefs.LoadPageCursor(ctx, feed)
	if err == nil {
		return cursor, nil
	}

	if !domain.IsNotFound(err) {
		return domain.PageCursor{}, fmt.Errorf("loading page cursor: %w", err)
	}

	cursor = domain.NewPageCursor(s.defaultPage, now)
	if err := prefs.SavePageCursor(ctx, feed, cursor); err != nil {
		return domain.PageCursor{}, fmt.Errorf("saving page cursor: %w", err)
	}

	return cursor, nil
}

func (s *FeedService) filterEnabled(ctx context.Context, deviceID string) bool {
	if s.flags == nil {
		return true
	}

	return s.flags.IsEnabled(ports.WithFlagDevice(ctx, deviceID), ports.FlagQuoteHistoryFilter, true)
}

func (s *FeedService) fallback(feed ports.Feed, page int) *FeedResult {
	s.metrics.QuotesServed(string(feed), true)

	return &FeedResult{Feed: feed, Page: page, Quotes: domain.FallbackQuotes(), Fallback: true}
}
