// Package model defines the core domain types for the resource booking system.
package model

import "time"

// ResourceType classifies a bookable resource.
type ResourceType string

const (
	TypeMeetingRoom ResourceType = "meeting-room"
	TypeEquipment   ResourceType = "equipment"
	TypeWorkspace   ResourceType = "workspace"
)

// Resource represents a bookable entity with a fixed number of units.
// AvailableUnits stays within [0, TotalUnits] after every completed
// operation; the stores clamp writes defensively.
type Resource struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           ResourceType `json:"type"`
	Description    string       `json:"description"`
	Capacity       int          `json:"capacity"`
	TotalUnits     int          `json:"totalUnits"`
	AvailableUnits int          `json:"availableUnits"`
	TimeSlots      []string     `json:"timeSlots"`
	Image          string       `json:"image,omitempty"`
}

// HasSlot reports whether slot is one of the resource's declared time slots.
func (r *Resource) HasSlot(slot string) bool {
	for _, s := range r.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Available reports whether at least one unit is free.
func (r *Resource) Available() bool {
	return r.AvailableUnits > 0
}

// BookingStatus is the lifecycle state of a booking. The only legal
// transitions are active→past and active→cancelled; past and cancelled
// are terminal.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingPast      BookingStatus = "past"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingPast || s == BookingCancelled
}

// Booking represents a reservation of one unit of a resource for a specific
// date and time slot. ResourceName is a display snapshot taken at creation;
// it is deliberately not kept in sync with later resource renames.
type Booking struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	ResourceID   string        `json:"resourceId"`
	ResourceName string        `json:"resourceName"`
	Date         Date          `json:"date"`
	TimeSlot     string        `json:"timeSlot"`
	BookedAt     time.Time     `json:"bookedAt"`
	Status       BookingStatus `json:"status"`
}

// IsCancellable reports whether the booking may still be cancelled: it must
// be active and dated today or later. Recomputed from the supplied date on
// every call, never cached on the record.
func (b *Booking) IsCancellable(today Date) bool {
	return b.Status == BookingActive && !b.Date.Before(today)
}

// IsUpcoming reports whether the booking is dated strictly after today.
func (b *Booking) IsUpcoming(today Date) bool {
	return b.Date.After(today)
}

// BookingDraft is the payload handed to a booking store for creation. The
// store assigns the ID and BookedAt timestamp.
type BookingDraft struct {
	UserID       string        `json:"userId"`
	ResourceID   string        `json:"resourceId"`
	ResourceName string        `json:"resourceName"`
	Date         Date          `json:"date"`
	TimeSlot     string        `json:"timeSlot"`
	Status       BookingStatus `json:"status"`
}

// CreateBookingRequest is the HTTP payload for submitting a booking.
type CreateBookingRequest struct {
	UserID     string `json:"userId"`
	ResourceID string `json:"resourceId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error      string `json:"error"`
	BookingID  string `json:"bookingId,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
}
