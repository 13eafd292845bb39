// Package engine implements the booking lifecycle: status transitions,
// availability adjustments, and the expiry sweep. It owns the invariant
// that a resource's available units track the set of active bookings and
// never leave [0, totalUnits].
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/okhariv/resource-booking/internal/metrics"
	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/store"
)

// Options configures optional Engine dependencies.
type Options struct {
	// Now supplies the current time for all "today" computations. If nil,
	// time.Now is used. Tests inject a fixed clock here.
	Now func() time.Time

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Engine validates booking intents and drives the two record stores.
// Within one operation the booking mutation is always issued before the
// availability mutation, so a failure in between leaves a detectable
// partial state (booking persisted, availability stale) that
// PartialFailureError reports for targeted retry.
type Engine struct {
	resources store.ResourceStore
	bookings  store.BookingStore
	now       func() time.Time
	logger    *slog.Logger
}

// New constructs an Engine over the two stores.
func New(resources store.ResourceStore, bookings store.BookingStore, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resources: resources, bookings: bookings, now: now, logger: logger}
}

func (e *Engine) today() model.Date {
	return model.DateOf(e.now())
}

// SubmitBooking validates and creates a booking, consuming one unit of the
// resource. Preconditions: the date is today or later, the slot is one of
// the resource's declared slots, and the resource has a free unit. On
// success the booking is active and the resource's available units dropped
// by exactly one.
func (e *Engine) SubmitBooking(ctx context.Context, userID, resourceID string, date model.Date, timeSlot string) (*model.Booking, error) {
	if userID == "" {
		return nil, fail("submit", invalid("userId", "user id is required"))
	}
	if resourceID == "" {
		return nil, fail("submit", invalid("resourceId", "resource id is required"))
	}
	if timeSlot == "" {
		return nil, fail("submit", invalid("timeSlot", "time slot is required"))
	}
	if date.Before(e.today()) {
		return nil, fail("submit", invalid("date", "cannot book a past date"))
	}

	res, err := e.resources.Get(ctx, resourceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail("submit", err)
		}
		return nil, fail("submit", &StoreError{Op: "get resource", Err: err})
	}
	if !res.HasSlot(timeSlot) {
		return nil, fail("submit", &ValidationError{
			Field:  "timeSlot",
			Reason: "slot is not offered by this resource",
		})
	}
	if !res.Available() {
		return nil, fail("submit", &ValidationError{
			Field:  "availableUnits",
			Reason: "no units available",
			err:    ErrNoUnits,
		})
	}

	// Booking record first, availability second. A crash in between leaves
	// the recoverable state: booking exists, availability stale.
	booking, err := e.bookings.Create(ctx, model.BookingDraft{
		UserID:       userID,
		ResourceID:   res.ID,
		ResourceName: res.Name,
		Date:         date,
		TimeSlot:     timeSlot,
		Status:       model.BookingActive,
	})
	if err != nil {
		return nil, fail("submit", &StoreError{Op: "create booking", Err: err})
	}

	if _, err := e.resources.PatchAvailability(ctx, res.ID, res.AvailableUnits-1); err != nil {
		metrics.OperationFailures.WithLabelValues("submit", "partial").Inc()
		return nil, &PartialFailureError{Op: "submit", Booking: booking, ResourceID: res.ID, Err: err}
	}

	metrics.BookingsCreated.Inc()
	e.logger.Info("booking created",
		"booking", booking.ID, "resource", res.ID, "user", userID,
		"date", date.String(), "slot", timeSlot)
	return booking, nil
}

// RequestCancellation cancels an active, still-cancellable booking and
// restores one unit to its resource, clamped to the resource's total.
// If the status flip persists but the restore does not, the returned
// PartialFailureError carries everything needed to retry the restore alone
// through CompleteCancellation.
func (e *Engine) RequestCancellation(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, fail("cancel", invalid("bookingId", "booking id is required"))
	}

	booking, err := e.bookings.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail("cancel", err)
		}
		return nil, fail("cancel", &StoreError{Op: "get booking", Err: err})
	}

	today := e.today()
	if booking.Status.Terminal() {
		return nil, fail("cancel", &ValidationError{
			Field:  "status",
			Reason: "booking is already " + string(booking.Status),
			err:    ErrNotCancellable,
		})
	}
	if !booking.IsCancellable(today) {
		return nil, fail("cancel", &ValidationError{
			Field:  "date",
			Reason: "booking date has passed",
			err:    ErrNotCancellable,
		})
	}

	cancelled, err := e.bookings.PatchStatus(ctx, bookingID, model.BookingCancelled)
	if err != nil {
		return nil, fail("cancel", &StoreError{Op: "patch booking status", Err: err})
	}

	if err := e.restoreUnit(ctx, cancelled.ResourceID); err != nil {
		metrics.OperationFailures.WithLabelValues("cancel", "partial").Inc()
		return nil, &PartialFailureError{Op: "cancel", Booking: cancelled, ResourceID: cancelled.ResourceID, Err: err}
	}

	metrics.BookingsCancelled.Inc()
	e.logger.Info("booking cancelled", "booking", cancelled.ID, "resource", cancelled.ResourceID)
	return cancelled, nil
}

// CompleteCancellation retries only the availability restore for a booking
// whose cancellation previously failed partway. The booking must already be
// cancelled; nothing else is mutated.
func (e *Engine) CompleteCancellation(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, fail("complete-cancel", invalid("bookingId", "booking id is required"))
	}

	booking, err := e.bookings.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail("complete-cancel", err)
		}
		return nil, fail("complete-cancel", &StoreError{Op: "get booking", Err: err})
	}
	if booking.Status != model.BookingCancelled {
		return nil, fail("complete-cancel", invalid("status", "booking is not cancelled"))
	}

	if err := e.restoreUnit(ctx, booking.ResourceID); err != nil {
		return nil, fail("complete-cancel", &StoreError{Op: "restore availability", Err: err})
	}

	metrics.BookingsCancelled.Inc()
	e.logger.Info("cancellation completed", "booking", booking.ID, "resource", booking.ResourceID)
	return booking, nil
}

// restoreUnit reads the resource's current availability and writes back one
// more unit, clamped to the total. The clamp is the safety net against
// over-restoration under repeated or interleaved restore attempts.
func (e *Engine) restoreUnit(ctx context.Context, resourceID string) error {
	res, err := e.resources.Get(ctx, resourceID)
	if err != nil {
		return err
	}
	next := res.AvailableUnits + 1
	if next > res.TotalUnits {
		next = res.TotalUnits
	}
	_, err = e.resources.PatchAvailability(ctx, resourceID, next)
	return err
}

// ExpireBookings is the pure expiry sweep: every active booking dated
// strictly before today moves to past in the returned snapshot. No
// availability change accompanies the transition (the unit was consumed for
// a date that has elapsed). Idempotent: sweeping a swept snapshot is a
// no-op. Makes no store calls.
func ExpireBookings(bookings []model.Booking, today model.Date) []model.Booking {
	out := make([]model.Booking, len(bookings))
	copy(out, bookings)
	for i := range out {
		if out[i].Status == model.BookingActive && out[i].Date.Before(today) {
			out[i].Status = model.BookingPast
		}
	}
	return out
}

// LoadBookings fetches a user's bookings, applies the expiry sweep against
// the engine clock, and persists each active→past transition. The returned
// slice reflects the swept state. A patch failure aborts with a StoreError;
// transitions already persisted stand, and rerunning is safe because the
// sweep is idempotent.
func (e *Engine) LoadBookings(ctx context.Context, userID string) ([]model.Booking, error) {
	if userID == "" {
		return nil, fail("load", invalid("userId", "user id is required"))
	}

	bookings, err := e.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail("load", &StoreError{Op: "list bookings", Err: err})
	}

	swept := ExpireBookings(bookings, e.today())
	for i := range swept {
		if swept[i].Status == bookings[i].Status {
			continue
		}
		if _, err := e.bookings.PatchStatus(ctx, swept[i].ID, swept[i].Status); err != nil {
			return nil, fail("load", &StoreError{Op: "persist expiry", Err: err})
		}
		metrics.BookingsExpired.Inc()
		e.logger.Info("booking expired", "booking", swept[i].ID, "date", swept[i].Date.String())
	}
	return swept, nil
}

// fail records a failed operation in the metrics and passes the error
// through unchanged.
func fail(op string, err error) error {
	kind := "store"
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, store.ErrNotFound) {
		kind = "validation"
	}
	metrics.OperationFailures.WithLabelValues(op, kind).Inc()
	return err
}
