package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidPayload      = errors.New("invalid payload")
	ErrInvalidTransition   = errors.New("invalid task transition")
	ErrConstraintViolation = errors.New("store constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrCycleInProgress     = errors.New("cycle already in progress")
	ErrNotFound            = errors.New("not found")
	ErrTaskTimeout         = errors.New("task timed out")
	ErrTasksUnfinished     = errors.New("tasks left unfinished")
)

type ErrorClass string

const (
	ClassTransient        ErrorClass = "transient"
	ClassTimeout          ErrorClass = "timeout"
	ClassPermanent        ErrorClass = "permanent"
	ClassConstraint       ErrorClass = "constraint"
	ClassStoreUnavailable ErrorClass = "store_unavailable"
)

// Retryable reports whether an error of this class may succeed on a later attempt.
func (c ErrorClass) Retryable() bool {
	return c == ClassTransient || c == ClassTimeout
}

// PermanentError marks a fetch failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// HTTPStatusError is returned by adapters on a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// PermanentStatus reports whether a status code should not be retried.
// Auth, timeout and throttling responses stay retryable.
func (e *HTTPStatusError) PermanentStatus() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}
