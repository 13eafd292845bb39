// Package store defines the request/response contracts for the two external
// record stores the engine mutates. Each call is independently fallible; the
// engine never assumes two store calls succeed or fail together.
package store

import (
	"context"
	"errors"

	"github.com/okhariv/resource-booking/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ResourceStore holds the authoritative set of bookable resources.
type ResourceStore interface {
	// Get returns a single resource or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Resource, error)

	// List returns all resources.
	List(ctx context.Context) ([]model.Resource, error)

	// PatchAvailability writes an absolute available-unit count and returns
	// the updated resource. Implementations clamp the value to
	// [0, totalUnits].
	PatchAvailability(ctx context.Context, id string, availableUnits int) (*model.Resource, error)
}

// BookingStore holds the authoritative set of bookings.
type BookingStore interface {
	// Get returns a single booking or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Booking, error)

	// ListByUser returns every booking owned by userID.
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)

	// Create persists a new booking from the draft, assigning its ID and
	// BookedAt timestamp.
	Create(ctx context.Context, draft model.BookingDraft) (*model.Booking, error)

	// PatchStatus updates a booking's status in place and returns the
	// updated record, or ErrNotFound.
	PatchStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
}
