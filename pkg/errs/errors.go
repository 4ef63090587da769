package errs

import "errors"

// Sentinel errors shared by the maintenance core. Callers match with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrValidation marks bad input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing or cross-tenant id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a work-order status edge outside the
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState marks an operation applied to an entity whose
	// current state forbids it (e.g. reversing a reversed ledger entry).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrAlreadyAssigned guards single-use assignment.
	ErrAlreadyAssigned = errors.New("work order already assigned")

	// ErrAlreadyProcessed guards single-use approval decisions.
	ErrAlreadyProcessed = errors.New("approval already processed")

	// ErrSchedulingConflict is returned when a CRITICAL conflict blocks
	// an assignment. Lower severities are surfaced as warnings instead.
	ErrSchedulingConflict = errors.New("critical scheduling conflict")

	// ErrInsufficientStock guards the inventory ledger against
	// over-deduction.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConcurrentModification signals a lost optimistic-lock race.
	// This is the only error callers are expected to retry.
	ErrConcurrentModification = errors.New("concurrent modification")
)
