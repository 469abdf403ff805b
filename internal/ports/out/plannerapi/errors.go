package plannerapi

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication indicates rejected credentials or a missing/expired token.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation indicates the service (or client-side shape checks) rejected a payload.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested resource id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrTransport indicates a connectivity failure or an upstream server error.
	ErrTransport = errors.New("transport failure")

	// ErrGeneration indicates the AI itinerary generator rejected the request.
	ErrGeneration = errors.New("trip generation rejected")
)

// Error is a classified API failure. Kind is one of the sentinel errors above, so callers
// can use errors.Is(err, plannerapi.ErrNotFound) while still rendering Message.
type Error struct {
	Kind    error
	Status  int
	Message string
	Details map[string]any

	// Cause is the underlying error for transport failures (nil for HTTP status failures).
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	kind := "api error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	if msg == "" {
		return kind
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", kind, msg)
}

func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Validation returns a client-side validation failure with per-field details.
func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: ErrValidation, Message: message, Details: details}
}
