// Package middleware provides the gin middleware of the HTTP surface.
package middleware

import "context"

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
	deviceIDKey      struct{}
)

// RequestIDFromContext returns the request ID, or "". Client adapters use
// it to propagate the ID to the remote APIs.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey{})
}

// DeviceIDFromContext returns the device the request is scoped to, or "".
func DeviceIDFromContext(ctx context.Context) string {
	return stringValue(ctx, deviceIDKey{})
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// ContextWithDeviceID stores a device ID in the context.
func ContextWithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, id)
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
