// Package dto holds the request and response bodies of the HTTP surface and
// the mapping from domain errors to the error envelope.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

// ContextKeyRequestID is the gin key the request ID middleware writes.
const ContextKeyRequestID = "request_id"

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
	TraceID   string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is machine-readable, e.g. "PERMISSION_DENIED".
	Code string `json:"code"`

	// Message is safe to show to the user.
	Message string `json:"message"`

	// Details holds field-level messages for validation failures.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeInvalidTimeRange = "INVALID_TIME_RANGE"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodePermissionDenied = "PERMISSION_DENIED"
	ErrorCodeUnauthorized     = "UNAUTHORIZED"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeBadGateway       = "BAD_GATEWAY"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeBadRequest       = "BAD_REQUEST"
)

// internalMessage hides unexpected failures from clients.
const internalMessage = "an internal error occurred"

// NewErrorResponse creates an error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error response with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeInvalidTimeRange, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden, ErrorCodePermissionDenied:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeBadGateway:
		return http.StatusBadGateway
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps err to a status and envelope. Checks run from the
// most specific error kind to the least, since several kinds share
// sentinels: a TimeRangeError is also a ValidationError and a
// PermissionDeniedError is also a ForbiddenError.
func MapDomainError(err error) (int, *ErrorResponse) {
	var (
		code    string
		message = err.Error()
		details map[string]string
	)

	var (
		denied    *domain.PermissionDeniedError
		invalid   *domain.ValidationError
		unauthErr *domain.UnauthorizedError
		rangeErr  *domain.TimeRangeError
	)

	switch {
	case errors.As(err, &denied):
		code, message = ErrorCodePermissionDenied, denied.Message
	case errors.As(err, &rangeErr):
		code, message = ErrorCodeInvalidTimeRange, rangeErr.Error()
	case domain.IsInvalidTimeRange(err):
		code = ErrorCodeInvalidTimeRange
	case errors.As(err, &invalid):
		code, message = ErrorCodeValidation, invalid.Message
		if invalid.Field != "" {
			details = map[string]string{invalid.Field: invalid.Message}
		}
	case domain.IsValidation(err):
		code = ErrorCodeValidation
	case errors.As(err, &unauthErr):
		code, message = ErrorCodeUnauthorized, unauthErr.Error()
	case domain.IsUnauthorized(err):
		code = ErrorCodeUnauthorized
	case domain.IsNotFound(err):
		code = ErrorCodeNotFound
	case domain.IsConflict(err):
		code = ErrorCodeConflict
	case domain.IsForbidden(err):
		code = ErrorCodeForbidden
	case domain.IsDecoding(err):
		code, message = ErrorCodeBadGateway, "the remote service sent an unreadable response"
	case domain.IsUnavailable(err):
		code = ErrorCodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code, message = ErrorCodeTimeout, "request timeout exceeded"
	default:
		code, message = ErrorCodeInternal, internalMessage
	}

	return HTTPStatusFromCode(code), NewErrorResponseWithDetails(code, message, details)
}

// RespondWithError writes the envelope for err. Internal errors are logged
// with their full chain; the client only sees a generic message.
func RespondWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			"error", err.Error())
	}

	write(c, status, decorate(c, resp), false)
}

// RespondWithErrorCode writes an envelope for adapter-level failures that
// have no domain error behind them.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	write(c, HTTPStatusFromCode(code), decorate(c, NewErrorResponse(code, message)), false)
}

// RespondWithValidationErrors writes a 400 with field-level messages.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)
	write(c, http.StatusBadRequest, decorate(c, resp), false)
}

// AbortWithErrorCode stops the handler chain with an envelope.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	write(c, HTTPStatusFromCode(code), decorate(c, NewErrorResponse(code, message)), true)
}

// TraceID returns the active span's trace ID, or "".
func TraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

func decorate(c *gin.Context, resp *ErrorResponse) *ErrorResponse {
	resp.TraceID = TraceID(c)
	resp.RequestID = c.GetString(ContextKeyRequestID)

	return resp
}

func write(c *gin.Context, status int, resp *ErrorResponse, abort bool) {
	switch {
	case c.Writer.Written():
		c.Abort()
	case abort:
		c.AbortWithStatusJSON(status, resp)
	default:
		c.JSON(status, resp)
	}
}
