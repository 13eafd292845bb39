package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okhariv/resource-booking/internal/engine"
	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/query"
	"github.com/okhariv/resource-booking/internal/store/memory"
)

var fixedNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	mem := memory.New()
	mem.SeedResources([]model.Resource{
		{
			ID: "r1", Name: "Conference Room", Type: model.TypeMeetingRoom,
			Description: "room with projector", Capacity: 10,
			TotalUnits: 3, AvailableUnits: 3,
			TimeSlots: []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			ID: "r2", Name: "Projector", Type: model.TypeEquipment,
			Description: "portable projector", Capacity: 1,
			TotalUnits: 2, AvailableUnits: 0,
			TimeSlots: []string{"09:00-10:00"},
		},
	})

	eng := engine.New(mem, mem.Bookings(), engine.Options{Now: func() time.Time { return fixedNow }})
	h := NewBookingHandler(eng, mem, "user1")

	r := chi.NewRouter()
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, mem
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestListResourcesFiltering(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/resources?available=true")
	if err != nil {
		t.Fatalf("GET /resources: %v", err)
	}
	resources := decodeBody[[]model.Resource](t, resp)
	if len(resources) != 1 || resources[0].ID != "r1" {
		t.Fatalf("available filter: got %+v", resources)
	}

	resp, err = http.Get(srv.URL + "/resources?type=equipment")
	if err != nil {
		t.Fatalf("GET /resources: %v", err)
	}
	resources = decodeBody[[]model.Resource](t, resp)
	if len(resources) != 1 || resources[0].ID != "r2" {
		t.Fatalf("type filter: got %+v", resources)
	}
}

func TestGetResourceNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/resources/missing")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateBooking(t *testing.T) {
	srv, mem := newTestServer(t)

	resp := postJSON(t, srv.URL+"/bookings",
		`{"resourceId":"r1","date":"2026-08-30","timeSlot":"09:00-10:00"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	b := decodeBody[model.Booking](t, resp)
	if b.Status != model.BookingActive {
		t.Errorf("status = %s, want active", b.Status)
	}
	if b.UserID != "user1" {
		t.Errorf("userId = %q, want default user1", b.UserID)
	}

	res, _ := mem.Get(context.Background(), "r1")
	if res.AvailableUnits != 2 {
		t.Errorf("availableUnits = %d, want 2", res.AvailableUnits)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	srv, _ := newTestServer(t)
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"bad date", `{"resourceId":"r1","date":"30-08-2026","timeSlot":"09:00-10:00"}`, http.StatusBadRequest},
		{"past date", `{"resourceId":"r1","date":"2026-08-28","timeSlot":"09:00-10:00"}`, http.StatusBadRequest},
		{"bad slot", `{"resourceId":"r1","date":"2026-08-30","timeSlot":"23:00-24:00"}`, http.StatusBadRequest},
		{"unknown resource", `{"resourceId":"nope","date":"2026-08-30","timeSlot":"09:00-10:00"}`, http.StatusNotFound},
		{"no units", `{"resourceId":"r2","date":"2026-08-30","timeSlot":"09:00-10:00"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/bookings", tc.body)
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestCancelFlow(t *testing.T) {
	srv, mem := newTestServer(t)

	resp := postJSON(t, srv.URL+"/bookings",
		`{"resourceId":"r1","date":"2026-08-29","timeSlot":"09:00-10:00"}`)
	b := decodeBody[model.Booking](t, resp)

	resp = postJSON(t, srv.URL+"/bookings/"+b.ID+"/cancel", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200", resp.StatusCode)
	}
	cancelled := decodeBody[model.Booking](t, resp)
	if cancelled.Status != model.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	res, _ := mem.Get(context.Background(), "r1")
	if res.AvailableUnits != 3 {
		t.Errorf("availableUnits = %d, want restored 3", res.AvailableUnits)
	}

	// Cancelling again conflicts.
	resp = postJSON(t, srv.URL+"/bookings/"+b.ID+"/cancel", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second cancel status = %d, want 409", resp.StatusCode)
	}
}

func TestCancelNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/bookings/missing/cancel", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListBookingsRunsSweep(t *testing.T) {
	srv, mem := newTestServer(t)
	mem.PutBooking(model.Booking{
		ID: "old", UserID: "user1", ResourceID: "r1", ResourceName: "Conference Room",
		Date: "2026-08-28", TimeSlot: "09:00-10:00", Status: model.BookingActive,
	})

	resp, err := http.Get(srv.URL + "/bookings")
	if err != nil {
		t.Fatalf("GET /bookings: %v", err)
	}
	list := decodeBody[struct {
		Bookings []model.Booking `json:"bookings"`
		Stats    query.Stats     `json:"stats"`
	}](t, resp)

	if len(list.Bookings) != 1 || list.Bookings[0].Status != model.BookingPast {
		t.Fatalf("expected the stale booking swept to past, got %+v", list.Bookings)
	}
	if list.Stats.Past != 1 || list.Stats.Total != 1 {
		t.Errorf("stats = %+v, want one past of one", list.Stats)
	}

	// The transition was persisted, not just reported.
	got, _ := mem.GetBooking(context.Background(), "old")
	if got.Status != model.BookingPast {
		t.Errorf("persisted status = %s, want past", got.Status)
	}
}

func TestListBookingsStatusFilter(t *testing.T) {
	srv, mem := newTestServer(t)
	mem.PutBooking(model.Booking{ID: "a", UserID: "user1", ResourceID: "r1", Date: "2026-08-30", Status: model.BookingActive})
	mem.PutBooking(model.Booking{ID: "c", UserID: "user1", ResourceID: "r1", Date: "2026-08-30", Status: model.BookingCancelled})

	resp, err := http.Get(srv.URL + "/bookings?status=cancelled")
	if err != nil {
		t.Fatalf("GET /bookings: %v", err)
	}
	list := decodeBody[struct {
		Bookings []model.Booking `json:"bookings"`
		Stats    query.Stats     `json:"stats"`
	}](t, resp)

	if len(list.Bookings) != 1 || list.Bookings[0].ID != "c" {
		t.Fatalf("status filter: got %+v", list.Bookings)
	}
	// Stats are computed before filtering.
	if list.Stats.Total != 2 {
		t.Errorf("stats total = %d, want 2", list.Stats.Total)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
