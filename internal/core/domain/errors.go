package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Entities owned by another tenant are reported as not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown import parser or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInUse indicates an entity cannot be deleted because other records depend on it.
	ErrInUse = errors.New("in use")

	// ErrImportInProgress indicates an inventory import is already running for the tenant.
	ErrImportInProgress = errors.New("import in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// The AI inventory parser is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCalendarUnavailable indicates the calendar mirror is not configured.
	ErrCalendarUnavailable = errors.New("calendar mirror unavailable")

	// Booking Errors.

	// ErrSlotUnavailable indicates the requested appointment slot cannot be booked.
	// It is returned wrapped in a *SlotError carrying the conflicts.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidTransition indicates an appointment status change that is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPlanLimitReached indicates the company's subscription plan does not allow more of a resource.
	ErrPlanLimitReached = errors.New("plan limit reached")

	// Authentication Errors.

	// ErrAuthRequired indicates an external service requires authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrRateLimited indicates a rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports an invalid field value.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid creates a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// SlotError carries the conflicts that prevented a booking.
type SlotError struct {
	Conflicts   []Conflict
	Suggestions []Slot
}

func (e *SlotError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrSlotUnavailable.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSlotUnavailable, e.Conflicts[0].Message)
}

// Unwrap returns ErrSlotUnavailable.
func (e *SlotError) Unwrap() error {
	return ErrSlotUnavailable
}
