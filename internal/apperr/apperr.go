// Package apperr holds the error taxonomy shared by every module.
//
// Services wrap one of the sentinels below with context
// (fmt.Errorf("...: %w", apperr.ErrNotFound)); handlers map them to HTTP
// status codes through httpx.Error. Nothing in this package retries.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// Input validation. Returned before any persistence attempt.
	ErrInvalidFuelType = errors.New("invalid fuel type")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidInput    = errors.New("invalid input")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")

	// ErrIllegalTransition means the requested status change is not in the
	// transition graph for the order's current status.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrStaleState means the persisted status changed between the
	// precondition check and the conditional update.
	ErrStaleState = errors.New("stale state")

	ErrConflict           = errors.New("conflict")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// FromStore translates a raw driver error into the taxonomy. what names the
// entity for the message ("order", "pump", ...).
func FromStore(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	if IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", what, ErrConflict, err)
	}
	// Already classified further down the stack.
	for _, known := range []error{ErrNotFound, ErrConflict, ErrStaleState, ErrBackendUnavailable} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %v", what, ErrBackendUnavailable, err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Constraint() names the violated index when it is.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}

// Constraint returns the name of the violated constraint, or "".
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
