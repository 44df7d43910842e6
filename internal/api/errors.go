package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed backend call. Status 0 means the request never got
// a response (transport failure); otherwise Status is the HTTP status
// and Message carries the server-provided message when there was one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
}

func statusIs(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == code
}

// IsTransport reports whether no response was received at all.
func IsTransport(err error) bool { return statusIs(err, 0) }

// IsUnauthorized reports an expired or invalid credential.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden reports a role-insufficient rejection.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsNotFound reports a missing entity.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsValidation reports a rejected malformed input.
func IsValidation(err error) bool {
	return statusIs(err, http.StatusBadRequest) || statusIs(err, http.StatusUnprocessableEntity)
}

// Message extracts the server-provided message from err, falling back
// to the given default. Stores use this to keep their error field
// human-readable.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
