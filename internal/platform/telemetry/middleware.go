package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/motivationapp/motivation-service/telemetry"

const (
	// TraceIDHeader carries the active trace ID back to callers.
	TraceIDHeader = "X-Trace-ID"

	// deviceHeader mirrors middleware.HeaderDeviceID. Platform packages do not
	// import adapters.
	deviceHeader = "X-Device-ID"

	// operationalPrefix marks probe and scrape routes, which are not traced.
	operationalPrefix = "/-/"

	unmatchedRoute = "unmatched"
)

// Metrics holds HTTP server instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics registers the HTTP server instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   Metrics
		err error
	)

	if m.requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.requestTotal, err = meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("HTTP requests by route and status"),
	); err != nil {
		return nil, err
	}

	if m.activeRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware traces API requests with otelgin, tags spans with the calling
// device, records route metrics and echoes the trace ID. Operational routes
// under /-/ are measured but not traced.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithFilter(traced)),
		MetricsMiddleware(),
	}
}

func traced(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, operationalPrefix)
}

// MetricsMiddleware records request metrics and sets the trace header. It
// must run after the tracing middleware so the span is in the context.
func MetricsMiddleware() gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}

		span := trace.SpanFromContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())

			if device := c.GetHeader(deviceHeader); device != "" {
				span.SetAttributes(attribute.String("motivation.device_id", device))
			}
		}

		if metrics == nil {
			c.Next()
			return
		}

		inflight := metric.WithAttributes(attrs...)
		metrics.activeRequests.Add(ctx, 1, inflight)

		defer func() {
			metrics.activeRequests.Add(ctx, -1, inflight)

			done := metric.WithAttributes(append(attrs, attribute.Int("http.status_code", c.Writer.Status()))...)
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
			metrics.requestTotal.Add(ctx, 1, done)
		}()

		c.Next()
	}
}
