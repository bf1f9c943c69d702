package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "motivation"

// DomainMetrics counts feed and scheduler outcomes. Nil receivers are
// valid and record nothing, so services can run without metrics.
type DomainMetrics struct {
	quotesServed     *prometheus.CounterVec
	pageAdvances     *prometheus.CounterVec
	scheduleRuns     *prometheus.CounterVec
	slotsRegistered  prometheus.Histogram
	permissionResult *prometheus.CounterVec
	widgetTimelines  *prometheus.CounterVec
}

// NewDomainMetrics registers the domain collectors on reg.
func NewDomainMetrics(reg prometheus.Registerer) (*DomainMetrics, error) {
	m := &DomainMetrics{
		quotesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quotes_served_total",
			Help:      "Quote lists served, by feed and whether fallback quotes were used.",
		}, []string{"feed", "fallback"}),
		pageAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_advances_total",
			Help:      "Page cursor advances, by feed.",
		}, []string{"feed"}),
		scheduleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "schedule_runs_total",
			Help:      "Reminder scheduling runs, by outcome.",
		}, []string{"outcome"}),
		slotsRegistered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "schedule_slots",
			Help:      "Notifications registered per successful scheduling run.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
		permissionResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "permission_results_total",
			Help:      "Notification permission answers, by status.",
		}, []string{"status"}),
		widgetTimelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "widget_timelines_total",
			Help:      "Widget timelines built, by quote source.",
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{
		m.quotesServed, m.pageAdvances, m.scheduleRuns,
		m.slotsRegistered, m.permissionResult, m.widgetTimelines,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// QuotesServed records a served quote list.
func (m *DomainMetrics) QuotesServed(feed string, fallback bool) {
	if m == nil {
		return
	}

	m.quotesServed.WithLabelValues(feed, strconv.FormatBool(fallback)).Inc()
}

// PageAdvanced records a page cursor advance.
func (m *DomainMetrics) PageAdvanced(feed string) {
	if m == nil {
		return
	}

	m.pageAdvances.WithLabelValues(feed).Inc()
}

// ScheduleRun records the outcome of a scheduling run: scheduled, denied,
// failed or empty.
func (m *DomainMetrics) ScheduleRun(outcome string, slots int) {
	if m == nil {
		return
	}

	m.scheduleRuns.WithLabelValues(outcome).Inc()

	if slots > 0 {
		m.slotsRegistered.Observe(float64(slots))
	}
}

// PermissionAnswered records a permission prompt answer.
func (m *DomainMetrics) PermissionAnswered(status string) {
	if m == nil {
		return
	}

	m.permissionResult.WithLabelValues(status).Inc()
}

// WidgetTimeline records which source fed a widget timeline: api, cache or
// fallback.
func (m *DomainMetrics) WidgetTimeline(source string) {
	if m == nil {
		return
	}

	m.widgetTimelines.WithLabelValues(source).Inc()
}
