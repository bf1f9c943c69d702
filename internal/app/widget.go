package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// WidgetConfig configures a WidgetService. Zero durations take the domain
// defaults.
type WidgetConfig struct {
	Feed   QuoteFeed
	Stores ports.PreferenceStores

	EntryInterval     time.Duration
	TimelineSpan      time.Duration
	CacheTTL          time.Duration
	RetryWithCache    time.Duration
	RetryWithFallback time.Duration

	// Pick returns a random index in [0, n). Defaults to rand.IntN.
	Pick func(n int) int

	Clock   clock.Clock
	Metrics Metrics
	Logger  *slog.Logger
}

// WidgetService builds home-screen widget timelines from the widget feed.
type WidgetService struct {
	feed   QuoteFeed
	stores ports.PreferenceStores

	interval      time.Duration
	span          time.Duration
	cacheTTL      time.Duration
	retryCache    time.Duration
	retryFallback time.Duration

	pick    func(n int) int
	clock   clock.Clock
	metrics Metrics
	logger  *slog.Logger
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}

	return d
}

// NewWidgetService panics when Feed or Stores is missing.
func NewWidgetService(cfg WidgetConfig) *WidgetService {
	if cfg.Feed == nil || cfg.Stores == nil {
		panic("app: WidgetService requires a quote feed and preference stores")
	}

	if cfg.Pick == nil {
		cfg.Pick = rand.IntN
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &WidgetService{
		feed:          cfg.Feed,
		stores:        cfg.Stores,
		interval:      orDuration(cfg.EntryInterval, domain.DefaultWidgetEntryInterval),
		span:          orDuration(cfg.TimelineSpan, domain.DefaultWidgetTimelineSpan),
		cacheTTL:      orDuration(cfg.CacheTTL, domain.DefaultWidgetCacheTTL),
		retryCache:    orDuration(cfg.RetryWithCache, domain.DefaultWidgetRetryWithCache),
		retryFallback: orDuration(cfg.RetryWithFallback, domain.DefaultWidgetRetryNoCache),
		pick:          cfg.Pick,
		clock:         cfg.Clock,
		metrics:       orNoop(cfg.Metrics),
		logger:        cfg.Logger.With(slog.String("component", "app.WidgetService")),
	}
}

// Timeline fetches the widget feed and lays its quotes out across the day.
// When the fetch fails, a single cached quote is shown if the cache is
// fresh, and a single fallback quote otherwise; both retry sooner.
func (s *WidgetService) Timeline(ctx context.Context, deviceID string) (domain.WidgetTimeline, error) {
	logger := logging.FromContextOr(ctx, s.logger)
	prefs := s.stores.ForDevice(deviceID)

	result, err := s.feed.Fetch(ctx, deviceID, ports.FeedWidget)
	if err != nil {
		if ctx.Err() != nil {
			return domain.WidgetTimeline{}, err
		}

		logger.WarnContext(ctx, "widget feed failed", slog.Any("error", err))
	}

	now := s.clock.Now()

	if err == nil && !result.Fallback && len(result.Quotes) > 0 {
		cache := domain.CachedQuotes{Quotes: result.Quotes, CachedAt: now}
		if cerr := prefs.SaveCachedQuotes(ctx, cache); cerr != nil {
			logger.WarnContext(ctx, "failed to cache widget quotes", slog.Any("error", cerr))
		}

		s.metrics.WidgetTimeline(SourceAPI)

		return domain.BuildWidgetTimeline(now, result.Quotes, s.interval, s.span), nil
	}

	cache, cerr := prefs.LoadCachedQuotes(ctx)
	if cerr != nil && !domain.IsNotFound(cerr) {
		logger.WarnContext(ctx, "failed to read widget cache", slog.Any("error", cerr))
	}

	if cerr == nil && cache.Fresh(now, s.cacheTTL) {
		s.metrics.WidgetTimeline(SourceCache)

		return domain.SingleEntryTimeline(now, cache.Quotes[s.pick(len(cache.Quotes))], s.retryCache), nil
	}

	fallback := domain.FallbackQuotes()
	timeline := domain.SingleEntryTimeline(now, fallback[s.pick(len(fallback))], s.retryFallback)
	timeline.Fallback = true

	s.metrics.WidgetTimeline(SourceFallback)

	return timeline, nil
}
