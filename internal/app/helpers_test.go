package app

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/adapters/notifications"
	"github.com/motivationapp/motivation-service/internal/adapters/store"
	"github.com/motivationapp/motivation-service/internal/adapters/store/memory"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

var testNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFakeClock() clock.FakeClock {
	clk := clock.NewFake()
	clk.Set(testNow)

	return clk
}

func newStores(clk clock.Clock) *store.Repository {
	return store.NewRepository(memory.New(clk), "test", discardLogger())
}

func quote(id int, author string) domain.Quote {
	return domain.Quote{
		ID:       id,
		Category: "Motivational",
		Type:     "text",
		Author:   author,
		Content:  "Quote " + author,
	}
}

func quotesPage(ids ...int) []domain.Quote {
	out := make([]domain.Quote, len(ids))
	for i, id := range ids {
		out[i] = quote(id, "Author")
	}

	return out
}

// centersWith returns memory centers where every device already answered
// the permission prompt with status.
func centersWith(t *testing.T, status domain.PermissionStatus, devices ...string) *notifications.MemoryCenters {
	t.Helper()

	centers := notifications.NewMemoryCenters(notifications.Options{})
	for _, d := range devices {
		recorder, ok := centers.ForDevice(d).(ports.PermissionRecorder)
		if !ok {
			t.Fatal("memory center does not record permission")
		}

		if err := recorder.SetPermission(t.Context(), status); err != nil {
			t.Fatal(err)
		}
	}

	return centers
}

type recordingMetrics struct {
	mu        sync.Mutex
	served    map[bool]int
	advanced  int
	runs      map[string]int
	answered  map[string]int
	timelines map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		served:    map[bool]int{},
		runs:      map[string]int{},
		answered:  map[string]int{},
		timelines: map[string]int{},
	}
}

func (m *recordingMetrics) QuotesServed(_ string, fallback bool) {
	m.mu.Lock()
	m.served[fallback]++
	m.mu.Unlock()
}

func (m *recordingMetrics) PageAdvanced(string) {
	m.mu.Lock()
	m.advanced++
	m.mu.Unlock()
}

func (m *recordingMetrics) ScheduleRun(outcome string, _ int) {
	m.mu.Lock()
	m.runs[outcome]++
	m.mu.Unlock()
}

func (m *recordingMetrics) PermissionAnswered(status string) {
	m.mu.Lock()
	m.answered[status]++
	m.mu.Unlock()
}

func (m *recordingMetrics) WidgetTimeline(source string) {
	m.mu.Lock()
	m.timelines[source]++
	m.mu.Unlock()
}
