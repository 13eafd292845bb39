// Package memory provides an in-process implementation of both record
// stores. It backs the test suite and the "memory" backend for running the
// service without external stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/store"
)

// Store implements store.ResourceStore and store.BookingStore over in-memory
// maps. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	resources map[string]model.Resource
	bookings  map[string]model.Booking
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		resources: make(map[string]model.Resource),
		bookings:  make(map[string]model.Booking),
	}
}

// SeedResources inserts resources, assigning IDs to any without one.
func (s *Store) SeedResources(resources []model.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range resources {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		s.resources[r.ID] = r
	}
}

// PutBooking inserts or replaces a booking record directly, bypassing draft
// creation. Intended for seeding test fixtures.
func (s *Store) PutBooking(b model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	s.bookings[b.ID] = b
}

// Get returns a resource by id.
func (s *Store) Get(ctx context.Context, id string) (*model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

// List returns all resources ordered by name.
func (s *Store) List(ctx context.Context) ([]model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PatchAvailability writes an absolute available-unit count, clamped to
// [0, totalUnits], and returns the updated resource.
func (s *Store) PatchAvailability(ctx context.Context, id string, availableUnits int) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if availableUnits < 0 {
		availableUnits = 0
	}
	if availableUnits > r.TotalUnits {
		availableUnits = r.TotalUnits
	}
	r.AvailableUnits = availableUnits
	s.resources[id] = r
	return &r, nil
}

// GetBooking returns a booking by id. Named to avoid colliding with the
// resource Get on the shared receiver.
func (s *Store) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

// ListByUser returns all bookings owned by userID ordered by creation time.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

// Create persists a new booking, assigning its ID and BookedAt timestamp.
func (s *Store) Create(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := model.Booking{
		ID:           uuid.New().String(),
		UserID:       draft.UserID,
		ResourceID:   draft.ResourceID,
		ResourceName: draft.ResourceName,
		Date:         draft.Date,
		TimeSlot:     draft.TimeSlot,
		BookedAt:     time.Now().UTC(),
		Status:       draft.Status,
	}
	s.bookings[b.ID] = b
	return &b, nil
}

// PatchStatus updates a booking's status in place.
func (s *Store) PatchStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	b.Status = status
	s.bookings[id] = b
	return &b, nil
}

// Bookings returns a type-narrowed view of the store implementing
// store.BookingStore, since Get is taken by the resource side.
func (s *Store) Bookings() store.BookingStore {
	return bookingView{s}
}

type bookingView struct{ s *Store }

func (v bookingView) Get(ctx context.Context, id string) (*model.Booking, error) {
	return v.s.GetBooking(ctx, id)
}

func (v bookingView) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return v.s.ListByUser(ctx, userID)
}

func (v bookingView) Create(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	return v.s.Create(ctx, draft)
}

func (v bookingView) PatchStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	return v.s.PatchStatus(ctx, id, status)
}
