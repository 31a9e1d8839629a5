/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. InvalidInput - Rejected before any computation (non-positive
     volume, missing required identifiers). Callers render these as
     form-level errors.
  2. Lookup absences - Missing rate cards, limit rules, partners.
     These are NOT errors inside the engine: resolvers return typed
     absences and the validator degrades (zero tariff, zero target,
     unbounded ceiling) while still reporting the degradation in the
     result. The sentinels here exist for callers (HTTP layer, batch
     import) that need to surface an absence as a message.
  3. Over-limit / over-quota - Not errors at all. Expected outcomes
     carried as flags on ValidationResult with full numeric context.

USAGE:
    if engine.IsInvalidInput(err) {
        // 400, form-level error
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the category sentinel for inputs rejected
	// before computation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidVolume is returned when a candidate volume is zero or
	// negative. Existing stored rows with bad volume degrade to a zero
	// contribution instead; only candidates are rejected.
	ErrInvalidVolume = errors.New("volume must be a positive integer")

	// ErrMissingIdentifier is returned when a required identifier
	// (partner, sub-activity, position, year) is absent.
	ErrMissingIdentifier = errors.New("missing required identifier")

	// ErrPartnerNotFound is returned by callers resolving a partner
	// reference that matches nothing.
	ErrPartnerNotFound = errors.New("partner not found")

	// ErrTaskNotFound is returned by callers resolving a task that
	// does not exist in the snapshot.
	ErrTaskNotFound = errors.New("task not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the offending field so the caller can show a
// form-level error rather than a data-quality warning.
type InvalidInputError struct {
	Field  string
	Reason string
	Cause  error // ErrInvalidVolume or ErrMissingIdentifier
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrInvalidInput
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInvalidInput reports whether the error belongs to the
// rejected-before-computation category.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidVolume) ||
		errors.Is(err, ErrMissingIdentifier) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPartnerNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}
