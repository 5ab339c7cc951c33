package adminapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredential is returned before any request when no admin key is set
var ErrMissingCredential = errors.New("admin key is required")

// UnauthorizedError is a 403 from the admin API: the key was rejected
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return "unauthorized: " + e.Message
	}
	return "unauthorized: invalid admin key"
}

// ValidationError is malformed local input, rejected before dispatch
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// RemoteError is a non-success status, or a 2xx payload declaring failure
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// TransportError is a failure to reach the admin API at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Validation builds a ValidationError
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsUnauthorized reports whether err carries a 403
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// Message returns the most specific user-facing text for err.
// Server-provided messages win over generic fallbacks.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingCredential) {
		return "Please enter the admin key first"
	}

	var (
		ue *UnauthorizedError
		ve *ValidationError
		re *RemoteError
		te *TransportError
	)
	switch {
	case errors.As(err, &ue):
		if ue.Message != "" {
			return ue.Message
		}
		return "Invalid admin key"
	case errors.As(err, &ve):
		return ve.Reason
	case errors.As(err, &re):
		if strings.TrimSpace(re.Message) != "" {
			return re.Message
		}
		return fmt.Sprintf("Request failed (HTTP %d)", re.Status)
	case errors.As(err, &te):
		return categorizeError(te.Err)
	}
	return err.Error()
}
