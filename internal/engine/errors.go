package engine

import (
	"errors"
	"fmt"

	"github.com/okhariv/resource-booking/internal/model"
)

// ErrNoUnits is the precondition failure for booking a resource with no
// available units.
var ErrNoUnits = errors.New("resource has no available units")

// ErrNotCancellable is the precondition failure for cancelling a booking
// that is terminal or past-dated.
var ErrNotCancellable = errors.New("booking is not cancellable")

// ValidationError reports a failed precondition. No state was mutated; the
// caller can correct the input and retry.
type ValidationError struct {
	Field  string
	Reason string
	err    error // optional sentinel (ErrNoUnits, ErrNotCancellable)
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.err }

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError reports that a store call failed before any mutation was
// applied by the current operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// PartialFailureError reports that the first mutation of a two-step
// operation was persisted but the second was not. Booking holds the record
// as persisted; ResourceID names the resource whose availability is stale.
// The caller retries only the missing availability write (via
// CompleteCancellation for cancellations) rather than re-running the whole
// operation, which would double-adjust.
type PartialFailureError struct {
	Op         string
	Booking    *model.Booking
	ResourceID string
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: booking %s persisted but availability of resource %s not updated: %v",
		e.Op, e.Booking.ID, e.ResourceID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
