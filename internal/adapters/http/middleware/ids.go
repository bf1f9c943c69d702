package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the ID of the business transaction, which
	// may span several requests and services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin key of the request ID.
	ContextKeyRequestID = dto.ContextKeyRequestID

	// ContextKeyCorrelationID is the gin key of the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

type idMiddleware struct {
	header   string
	ginKey   string
	withID   func(ctx context.Context, id string) context.Context
	withAttr func(ctx context.Context, id string) context.Context
}

// RequestID extracts X-Request-ID, generating a UUID when absent, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return idMiddleware{
		header:   HeaderRequestID,
		ginKey:   ContextKeyRequestID,
		withID:   ContextWithRequestID,
		withAttr: logging.WithRequestID,
	}.handle
}

// CorrelationID propagates X-Correlation-ID from upstream, starting a new
// transaction when absent.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware{
		header:   HeaderCorrelationID,
		ginKey:   ContextKeyCorrelationID,
		withID:   ContextWithCorrelationID,
		withAttr: logging.WithCorrelationID,
	}.handle
}

func (m idMiddleware) handle(c *gin.Context) {
	id := c.GetHeader(m.header)
	if id == "" {
		id = uuid.NewString()
	}

	c.Set(m.ginKey, id)
	c.Header(m.header, id)

	ctx := m.withAttr(m.withID(c.Request.Context(), id), id)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}

// GetRequestID returns the request ID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
