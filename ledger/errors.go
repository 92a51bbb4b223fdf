/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers should match with errors.Is / errors.As rather than string checks.

ERROR CATEGORIES:
  1. Validation errors - Malformed windows or missing required dates
  2. Not-found errors  - Entity has no record in the backing store
  3. Data integrity    - NOT errors: a malformed record is skipped and
                         counted in SkippedCount, never raised

SEE ALSO:
  - window.go: Returns validation errors
  - engine.go: Returns not-found and validation errors
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntityNotFound is returned when the record source tracks entities
	// and the requested entity has no record.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInvalidWindow is returned when a window ends before it starts.
	// The resolver never produces such a window for named presets; the
	// engine checks again because callers can construct windows directly.
	ErrInvalidWindow = errors.New("invalid window: end before start")

	// ErrMissingCustomRange is returned when the custom preset is requested
	// without both boundary dates.
	ErrMissingCustomRange = errors.New("custom window requires both start and end dates")

	// ErrUnknownPreset is returned for a preset name the resolver does not
	// recognize.
	ErrUnknownPreset = errors.New("unknown window preset")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EntityNotFoundError identifies which entity was missing.
type EntityNotFoundError struct {
	EntityID EntityID
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %s", e.EntityID)
}

func (e *EntityNotFoundError) Unwrap() error { return ErrEntityNotFound }

// InvalidWindowError carries the offending boundaries.
type InvalidWindowError struct {
	Start TimePoint
	End   TimePoint
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: end %s before start %s", e.End, e.Start)
}

func (e *InvalidWindowError) Unwrap() error { return ErrInvalidWindow }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrMissingCustomRange) ||
		errors.Is(err, ErrUnknownPreset)
}
