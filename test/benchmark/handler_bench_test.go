package benchmark

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/flags"
	"github.com/motivationapp/motivation-service/internal/adapters/http/handlers"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
	"github.com/motivationapp/motivation-service/internal/adapters/notifications"
	"github.com/motivationapp/motivation-service/internal/adapters/store"
	"github.com/motivationapp/motivation-service/internal/adapters/store/memory"
	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r

	return c
}

type staticSource struct {
	quotes []domain.Quote
}

func (s staticSource) FetchPage(context.Context, int) ([]domain.Quote, error) {
	return s.quotes, nil
}

func benchQuotes(n int) []domain.Quote {
	quotes := make([]domain.Quote, n)
	for i := range quotes {
		quotes[i] = domain.Quote{ID: i + 1, Author: "Author", Content: "Keep going"}
	}

	return quotes
}

type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string { return s.name }

func (s *simpleHealthChecker) Check(context.Context) error { return nil }

// BenchmarkLivenessHandler is the Kubernetes probe path.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		handler.Liveness(createGinContext(httptest.NewRecorder(), req))
	}
}

// BenchmarkReadinessHandler_WithChecks runs the checks concurrently per call.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()
	for _, name := range []string{"store", "notifications", "quote-api"} {
		_ = registry.Register(&simpleHealthChecker{name: name})
	}

	handler := handlers.NewHealthHandler(registry, handlers.BuildInfo{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		handler.Readiness(createGinContext(httptest.NewRecorder(), req))
	}
}

func BenchmarkComputeSlotTimes(b *testing.B) {
	start := domain.MustTimeOfDay(7, 0)
	end := domain.MustTimeOfDay(23, 0)

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.ComputeSlotTimes(start, end, 15)
	}
}

func BenchmarkFilterNewQuotes(b *testing.B) {
	now := time.Now()
	candidates := benchQuotes(50)

	history := make([]domain.QuoteHistoryEntry, 0, 500)
	for i := range 500 {
		history = append(history, domain.QuoteHistoryEntry{
			ID:         i * 2,
			FetchDate:  now.Add(-time.Duration(i) * time.Hour),
			PageNumber: 1,
		})
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.FilterNewQuotes(candidates, history, now, domain.DefaultRetentionWindow)
	}
}

// BenchmarkScheduleChain measures a full scheduling request through the
// device middleware over memory backends.
func BenchmarkScheduleChain(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := store.NewRepository(memory.New(nil), "bench", logger)
	centers := notifications.NewMemoryCenters(notifications.Options{GrantByDefault: true})

	feed := app.NewFeedService(app.FeedConfig{
		Source: staticSource{quotes: benchQuotes(20)},
		Stores: stores,
		Flags:  flags.NewStatic(map[string]bool{ports.FlagQuoteHistoryFilter: false}),
		Logger: logger,
	})
	reminders := app.NewReminderService(app.ReminderConfig{
		Feed:    feed,
		Stores:  stores,
		Centers: centers,
		Flags:   flags.NewStatic(nil),
		Logger:  logger,
	})

	router := gin.New()
	api := router.Group("/api/v1", middleware.RequireDevice(middleware.DeviceConfig{}))
	handlers.NewReminderHandler(reminders).RegisterRoutes(api)

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/schedule", http.NoBody)
		req.Header.Set(middleware.DefaultDeviceHeader, "bench-device")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}
