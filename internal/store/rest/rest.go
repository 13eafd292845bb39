// Package rest implements the record store contracts against a REST-style
// HTTP+JSON record store (json-server compatible): resources and bookings
// are collections addressed by id, partial updates go through PATCH.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/store"
)

// Client talks to the record store at BaseURL. It implements both
// store.ResourceStore and store.BookingStore; use Resources() and Bookings()
// to hand out the narrowed views.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the record store at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: record store returned %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ─── Resource store ───────────────────────────────────────────────────────────

type resourceView struct{ c *Client }

// Resources returns the store.ResourceStore view of the client.
func (c *Client) Resources() store.ResourceStore {
	return resourceView{c}
}

func (v resourceView) Get(ctx context.Context, id string) (*model.Resource, error) {
	var r model.Resource
	if err := v.c.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (v resourceView) List(ctx context.Context) ([]model.Resource, error) {
	var resources []model.Resource
	if err := v.c.do(ctx, http.MethodGet, "/resources", nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (v resourceView) PatchAvailability(ctx context.Context, id string, availableUnits int) (*model.Resource, error) {
	patch := map[string]int{"availableUnits": availableUnits}
	var r model.Resource
	if err := v.c.do(ctx, http.MethodPatch, "/resources/"+url.PathEscape(id), patch, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ─── Booking store ────────────────────────────────────────────────────────────

type bookingView struct{ c *Client }

// Bookings returns the store.BookingStore view of the client.
func (c *Client) Bookings() store.BookingStore {
	return bookingView{c}
}

func (v bookingView) Get(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := v.c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (v bookingView) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	var bookings []model.Booking
	path := "/bookings?userId=" + url.QueryEscape(userID)
	if err := v.c.do(ctx, http.MethodGet, path, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (v bookingView) Create(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	// The record store assigns the id; bookedAt is set here because
	// json-server stores documents verbatim.
	payload := struct {
		model.BookingDraft
		BookedAt time.Time `json:"bookedAt"`
	}{draft, time.Now().UTC()}

	var b model.Booking
	if err := v.c.do(ctx, http.MethodPost, "/bookings", payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (v bookingView) PatchStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	patch := map[string]model.BookingStatus{"status": status}
	var b model.Booking
	if err := v.c.do(ctx, http.MethodPatch, "/bookings/"+url.PathEscape(id), patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
