// Package query provides pure, stateless filtering and sorting over
// in-memory resource and booking collections. It never mutates its inputs
// and makes no store calls.
package query

import (
	"sort"
	"strings"

	"github.com/okhariv/resource-booking/internal/model"
)

// SortOrder selects ascending or descending sorts.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ResourceFilter selects resources by search term, type, and availability.
type ResourceFilter struct {
	// Search matches case-insensitively against name and description.
	Search string
	// Type is a resource type, or "all"/"" for no type filter.
	Type string
	// AvailableOnly keeps only resources with at least one free unit.
	AvailableOnly bool
}

// FilterResources returns the resources matching f, preserving input order.
func FilterResources(resources []model.Resource, f ResourceFilter) []model.Resource {
	search := strings.ToLower(f.Search)
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Description), search) {
			continue
		}
		if f.Type != "" && f.Type != "all" && string(r.Type) != f.Type {
			continue
		}
		if f.AvailableOnly && !r.Available() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortResources returns a sorted copy of resources. Supported keys: name,
// type, capacity, availability; anything else falls back to name.
func SortResources(resources []model.Resource, by string, order SortOrder) []model.Resource {
	out := make([]model.Resource, len(resources))
	copy(out, resources)

	less := func(a, b model.Resource) bool {
		switch by {
		case "type":
			return a.Type < b.Type
		case "capacity":
			return a.Capacity < b.Capacity
		case "availability":
			return a.AvailableUnits < b.AvailableUnits
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// FilterBookings returns the bookings with the given status, or all of them
// for "all"/"".
func FilterBookings(bookings []model.Booking, status string) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if status != "" && status != "all" && string(b.Status) != status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SortBookings returns a sorted copy of bookings. Supported keys: date
// (date then time slot), resource, status, bookedAt; anything else falls
// back to date.
func SortBookings(bookings []model.Booking, by string, order SortOrder) []model.Booking {
	out := make([]model.Booking, len(bookings))
	copy(out, bookings)

	less := func(a, b model.Booking) bool {
		switch by {
		case "resource":
			return strings.ToLower(a.ResourceName) < strings.ToLower(b.ResourceName)
		case "status":
			return a.Status < b.Status
		case "bookedAt":
			return a.BookedAt.Before(b.BookedAt)
		default:
			if a.Date != b.Date {
				return a.Date.Before(b.Date)
			}
			return a.TimeSlot < b.TimeSlot
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Stats tallies bookings by status.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Past      int `json:"past"`
	Cancelled int `json:"cancelled"`
}

// BookingStats counts bookings per status.
func BookingStats(bookings []model.Booking) Stats {
	s := Stats{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case model.BookingActive:
			s.Active++
		case model.BookingPast:
			s.Past++
		case model.BookingCancelled:
			s.Cancelled++
		}
	}
	return s
}
