// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the booking engine.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okhariv/resource-booking/internal/engine"
	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/query"
	"github.com/okhariv/resource-booking/internal/store"
)

// BookingHandler holds all HTTP handlers for the booking API.
type BookingHandler struct {
	engine      *engine.Engine
	resources   store.ResourceStore
	defaultUser string
}

// NewBookingHandler constructs a BookingHandler. defaultUser is the identity
// assumed when a request carries no userId parameter.
func NewBookingHandler(eng *engine.Engine, resources store.ResourceStore, defaultUser string) *BookingHandler {
	return &BookingHandler{engine: eng, resources: resources, defaultUser: defaultUser}
}

// Routes mounts all API routes on r.
func (h *BookingHandler) Routes(r chi.Router) {
	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.ListResources)
		r.Get("/{id}", h.GetResource)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/", h.CreateBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/cancel/complete", h.CompleteCancellation)
	})
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeEngineError maps engine error kinds to HTTP statuses. Partial
// failures carry the booking and resource ids so the caller can target the
// retry endpoint.
func writeEngineError(w http.ResponseWriter, err error) {
	var perr *engine.PartialFailureError
	if errors.As(err, &perr) {
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{
			Error:      perr.Error(),
			BookingID:  perr.Booking.ID,
			ResourceID: perr.ResourceID,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, engine.ErrNoUnits):
		writeError(w, http.StatusConflict, "resource has no available units")
	case errors.Is(err, engine.ErrNotCancellable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		var verr *engine.ValidationError
		var serr *engine.StoreError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.As(err, &serr):
			writeError(w, http.StatusBadGateway, "record store unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

// ─── Resource handlers ────────────────────────────────────────────────────────

// ListResources handles GET /resources
// Query params: search, type, available, sortBy, order.
func (h *BookingHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resources.List(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to list resources")
		return
	}

	q := r.URL.Query()
	resources = query.FilterResources(resources, query.ResourceFilter{
		Search:        q.Get("search"),
		Type:          q.Get("type"),
		AvailableOnly: q.Get("available") == "true",
	})
	resources = query.SortResources(resources, q.Get("sortBy"), sortOrder(q.Get("order")))

	if resources == nil {
		resources = []model.Resource{}
	}
	writeJSON(w, http.StatusOK, resources)
}

// GetResource handles GET /resources/{id}
func (h *BookingHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.resources.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to get resource")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ─── Booking handlers ─────────────────────────────────────────────────────────

// bookingList is the GET /bookings response envelope.
type bookingList struct {
	Bookings []model.Booking `json:"bookings"`
	Stats    query.Stats     `json:"stats"`
}

// ListBookings handles GET /bookings
// Loads the user's bookings, running the expiry sweep first so past-dated
// active bookings are already transitioned in the response.
// Query params: userId, status, sortBy, order.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		userID = h.defaultUser
	}

	bookings, err := h.engine.LoadBookings(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	stats := query.BookingStats(bookings)
	bookings = query.FilterBookings(bookings, q.Get("status"))
	bookings = query.SortBookings(bookings, q.Get("sortBy"), sortOrder(q.Get("order")))

	writeJSON(w, http.StatusOK, bookingList{Bookings: bookings, Stats: stats})
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" {
		req.UserID = h.defaultUser
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return
	}

	booking, err := h.engine.SubmitBooking(r.Context(), req.UserID, req.ResourceID, date, req.TimeSlot)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// CancelBooking handles POST /bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.engine.RequestCancellation(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// CompleteCancellation handles POST /bookings/{id}/cancel/complete
// Retries the availability restore for a cancellation that failed partway.
func (h *BookingHandler) CompleteCancellation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.engine.CompleteCancellation(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func sortOrder(s string) query.SortOrder {
	if s == string(query.Desc) {
		return query.Desc
	}
	return query.Asc
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
