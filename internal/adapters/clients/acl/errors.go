package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/domain"
)

// maxErrorBody caps how much of an error body is read.
const maxErrorBody = 64 << 10

// ErrorResponse is the error body of the remote API. It accepts the flat
// {"message","errors"} form the API uses today and the nested
// {"error":{"code","message"}} form of older deployments.
type ErrorResponse struct {
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   *ErrorDetail        `json:"error,omitempty"`
}

// ErrorDetail is the nested error form.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetMessage returns the most specific message in the body.
func (e *ErrorResponse) GetMessage() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Error != nil {
		return e.Error.Message
	}

	return ""
}

// FirstFieldError returns the alphabetically first field with a message.
func (e *ErrorResponse) FirstFieldError() (field, message string, ok bool) {
	fields := make([]string, 0, len(e.Errors))
	for f, msgs := range e.Errors {
		if len(msgs) > 0 {
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 {
		return "", "", false
	}

	sort.Strings(fields)

	return fields[0], e.Errors[fields[0]][0], true
}

// ParseErrorResponse decodes an error body. Returns nil if the body is
// empty, not JSON or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" && len(errResp.Errors) == 0 {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed call to a domain error. clientErr is the
// transport error when no response arrived; otherwise resp is a non-2xx
// response whose body may add detail. entityID feeds NotFoundError.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if isSuccess(resp.StatusCode) {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation, entityID)
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("circuit breaker open during %s", operation))
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("max retries exceeded during %s", operation))
	default:
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation, entityID string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch {
	case status == http.StatusUnauthorized:
		// The API's 401 text is generic; keep the user-facing wording.
		return domain.NewUnauthorizedError("")

	case status == http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)

	case status == http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	case status == http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)

	default:
		if errResp != nil {
			if field, msg, ok := errResp.FirstFieldError(); ok {
				return domain.NewValidationError(field, msg)
			}
		}

		return domain.NewValidationError("", message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid request"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
