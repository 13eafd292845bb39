// Package postgres implements the record store contracts on PostgreSQL.
// It uses pgx directly (no ORM) for transparency and performance.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/store"
)

// ResourceStore handles persistence for resources.
type ResourceStore struct {
	db *pgxpool.Pool
}

// NewResourceStore constructs a ResourceStore.
func NewResourceStore(db *pgxpool.Pool) *ResourceStore {
	return &ResourceStore{db: db}
}

const resourceColumns = `id, name, type, description, capacity, total_units, available_units, time_slots, image`

func scanResource(row pgx.Row) (*model.Resource, error) {
	var r model.Resource
	err := row.Scan(&r.ID, &r.Name, &r.Type, &r.Description, &r.Capacity,
		&r.TotalUnits, &r.AvailableUnits, &r.TimeSlots, &r.Image)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get returns a single resource or store.ErrNotFound.
func (s *ResourceStore) Get(ctx context.Context, id string) (*model.Resource, error) {
	r, err := scanResource(s.db.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return r, nil
}

// List returns all resources ordered by name.
func (s *ResourceStore) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, *r)
	}
	return resources, rows.Err()
}

// PatchAvailability writes an absolute available-unit count and returns the
// updated resource. The value is clamped to [0, total_units] in SQL so the
// availability invariant holds regardless of what the caller computed.
func (s *ResourceStore) PatchAvailability(ctx context.Context, id string, availableUnits int) (*model.Resource, error) {
	r, err := scanResource(s.db.QueryRow(ctx,
		`UPDATE resources
		 SET available_units = LEAST(GREATEST($2, 0), total_units)
		 WHERE id = $1
		 RETURNING `+resourceColumns,
		id, availableUnits))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("patch resource availability: %w", err)
	}
	return r, nil
}

// BookingStore handles persistence for bookings.
type BookingStore struct {
	db *pgxpool.Pool
}

// NewBookingStore constructs a BookingStore.
func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{db: db}
}

const bookingColumns = `id, user_id, resource_id, resource_name, date, time_slot, booked_at, status`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var date string
	err := row.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.ResourceName, &date,
		&b.TimeSlot, &b.BookedAt, &b.Status)
	if err != nil {
		return nil, err
	}
	b.Date = model.Date(date)
	return &b, nil
}

// Get returns a single booking or store.ErrNotFound.
func (s *BookingStore) Get(ctx context.Context, id string) (*model.Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListByUser returns all bookings owned by userID ordered by creation time.
func (s *BookingStore) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY booked_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Create inserts a new booking with a generated UUID and server-side
// creation timestamp.
func (s *BookingStore) Create(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	b := &model.Booking{
		ID:           uuid.New().String(),
		UserID:       draft.UserID,
		ResourceID:   draft.ResourceID,
		ResourceName: draft.ResourceName,
		Date:         draft.Date,
		TimeSlot:     draft.TimeSlot,
		BookedAt:     time.Now().UTC(),
		Status:       draft.Status,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO bookings (id, user_id, resource_id, resource_name, date, time_slot, booked_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.ResourceID, b.ResourceName, string(b.Date), b.TimeSlot, b.BookedAt, b.Status)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

// PatchStatus updates a booking's status in place and returns the updated
// record.
func (s *BookingStore) PatchStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1 RETURNING `+bookingColumns,
		id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("patch booking status: %w", err)
	}
	return b, nil
}
