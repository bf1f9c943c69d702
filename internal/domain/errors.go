// Package domain contains the motivation core: quote history filtering, page
// cursor math, notification slot scheduling and the scheduling lifecycle.
//
// Domain errors describe business failures and carry no transport details.
// Adapters map them to HTTP status codes or user-facing messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as an illegal lifecycle transition.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by business rules.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a network failure reaching a dependency.
	ErrUnavailable = errors.New("unavailable")

	// ErrUnauthorized indicates rejected credentials or a missing session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDecoding indicates a response did not match the expected shape.
	ErrDecoding = errors.New("decoding failed")

	// ErrPermissionDenied indicates the device declined notification permission.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrInvalidTimeRange indicates a reminder window whose end is not after its start.
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// PermissionSettingsMessage is shown when notifications are disabled for the app.
const PermissionSettingsMessage = "Notifications are disabled for Motivation. " +
	"Open Settings > Notifications to allow reminders."

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s conflict: %s (%s)", e.Entity, e.Reason, e.Details)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewConflictErrorWithDetails creates a conflict error with additional details.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// TimeRangeError reports a reminder window that cannot produce slots.
// It matches both ErrInvalidTimeRange and ErrValidation.
type TimeRangeError struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Error implements the error interface.
func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("end time %s must be after start time %s", e.End, e.Start)
}

// Unwrap exposes both sentinels.
func (e *TimeRangeError) Unwrap() []error {
	return []error{ErrInvalidTimeRange, ErrValidation}
}

// NewTimeRangeError creates an invalid time range error.
func NewTimeRangeError(start, end TimeOfDay) error {
	return &TimeRangeError{Start: start, End: end}
}

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// PermissionDeniedError is returned instead of a scheduling result when the
// device has not granted notification permission.
type PermissionDeniedError struct {
	DeviceID string
	Message  string
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	return e.Message
}

// Unwrap exposes both sentinels.
func (e *PermissionDeniedError) Unwrap() []error {
	return []error{ErrPermissionDenied, ErrForbidden}
}

// NewPermissionDeniedError creates a permission denied error carrying the settings message.
func NewPermissionDeniedError(deviceID string) error {
	return &PermissionDeniedError{DeviceID: deviceID, Message: PermissionSettingsMessage}
}

// UnavailableError provides context for network failures.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// DecodingError reports a response body that could not be decoded.
type DecodingError struct {
	Service string
	Cause   error
}

// Error implements the error interface.
func (e *DecodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Data error: %s: %v", e.Service, e.Cause)
	}

	return "Data error: " + e.Service
}

// Unwrap exposes the sentinel and the underlying decoder error.
func (e *DecodingError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDecoding}
	}

	return []error{ErrDecoding, e.Cause}
}

// NewDecodingError creates a decoding error with context.
func NewDecodingError(service string, cause error) error {
	return &DecodingError{Service: service, Cause: cause}
}

// UnauthorizedError reports rejected credentials.
type UnauthorizedError struct {
	Message string
}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "Invalid email or password"
	}

	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) error {
	return &UnauthorizedError{Message: message}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnauthorized checks if an error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsDecoding checks if an error is a decoding error.
func IsDecoding(err error) bool {
	return errors.Is(err, ErrDecoding)
}

// IsPermissionDenied checks if an error is a notification permission error.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsInvalidTimeRange checks if an error is an invalid reminder window.
func IsInvalidTimeRange(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange)
}

// IsFetchFailure reports whether a quote fetch failed in a way that calls for
// fallback quotes: a network failure or an undecodable response.
func IsFetchFailure(err error) bool {
	return IsUnavailable(err) || IsDecoding(err)
}
