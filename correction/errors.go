/*
errors.go - Error taxonomy for the time-correction workflow

PURPOSE:
  Every remote failure is resolved to a single error value carrying a
  human-readable message. Callers display the message and leave their
  prior state intact; nothing here is retried automatically.

TAXONOMY (by upstream condition):
  transport failure  -> ErrServerUnavailable
  400                -> ErrValidation (message from payload)
  401                -> ErrReauthRequired
  403                -> ErrPermissionDenied
  404                -> ErrNotFound
  409                -> ErrConflict
  >=500              -> ErrServer

USAGE:
  if errors.Is(err, correction.ErrServerUnavailable) { ... }

SEE ALSO:
  - client.go: maps HTTP responses onto this taxonomy
*/
package correction

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrServerUnavailable is returned when the upstream API cannot be
	// reached at all (DNS, connection refused, timeout).
	ErrServerUnavailable = errors.New("server not available, please try again later")

	// ErrValidation is returned for client-side validation failures and
	// upstream 400 responses.
	ErrValidation = errors.New("validation failed")

	// ErrReauthRequired is returned on 401: the session has expired.
	ErrReauthRequired = errors.New("session expired, please sign in again")

	// ErrPermissionDenied is returned on 403.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	// ErrNotFound is returned on 404.
	ErrNotFound = errors.New("requested record was not found")

	// ErrConflict is returned on 409.
	ErrConflict = errors.New("the record was modified by someone else")

	// ErrServer is returned for any 5xx response.
	ErrServer = errors.New("an unexpected server error occurred")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// APIError carries the upstream status and message alongside the
// taxonomy sentinel it unwraps to.
type APIError struct {
	StatusCode int
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.sentinel.Error()
}

func (e *APIError) Unwrap() error { return e.sentinel }

// classifyStatus maps an HTTP status code and payload message onto the
// taxonomy. Only called for non-2xx responses.
func classifyStatus(status int, message string) error {
	var sentinel error
	switch {
	case status == 400:
		sentinel = ErrValidation
	case status == 401:
		sentinel = ErrReauthRequired
	case status == 403:
		sentinel = ErrPermissionDenied
	case status == 404:
		sentinel = ErrNotFound
	case status == 409:
		sentinel = ErrConflict
	case status >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrServer
	}
	if message == "" {
		message = sentinel.Error()
	}
	return &APIError{StatusCode: status, Message: message, sentinel: sentinel}
}

// validationError builds a client-side validation failure with a
// caller-facing message.
func validationError(format string, args ...any) error {
	return &APIError{
		StatusCode: 400,
		Message:    fmt.Sprintf(format, args...),
		sentinel:   ErrValidation,
	}
}
