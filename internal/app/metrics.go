package app

// Metrics receives domain counters. *telemetry.DomainMetrics implements it.
type Metrics interface {
	QuotesServed(feed string, fallback bool)
	PageAdvanced(feed string)
	ScheduleRun(outcome string, slots int)
	PermissionAnswered(status string)
	WidgetTimeline(source string)
}

// Schedule run outcomes.
const (
	OutcomeScheduled = "scheduled"
	OutcomeDenied    = "denied"
	OutcomeFailed    = "failed"
	OutcomeDisabled  = "disabled"
)

// Widget timeline sources.
const (
	SourceAPI      = "api"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

type noopMetrics struct{}

func (noopMetrics) QuotesServed(string, bool) {}
func (noopMetrics) PageAdvanced(string) {}
func (noopMetrics) ScheduleRun(string, int) {}
func (noopMetrics) PermissionAnswered(string) {}
func (noopMetrics) WidgetTimeline(string) {}

func orNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}

	return m
}
