package model

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2026-08-29", want: "2026-08-29"},
		{in: "2026-01-02", want: "2026-01-02"},
		{in: "2026-8-29", wantErr: true},
		{in: "29-08-2026", wantErr: true},
		{in: "2026-13-01", wantErr: true},
		{in: "not-a-date", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date("2026-08-28")
	b := Date("2026-08-29")
	if !a.Before(b) {
		t.Errorf("%s should be before %s", a, b)
	}
	if !b.After(a) {
		t.Errorf("%s should be after %s", b, a)
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date must not order before or after itself")
	}
}

func TestDateOf(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)
	if got := DateOf(now); got != "2026-08-29" {
		t.Errorf("DateOf = %q, want 2026-08-29", got)
	}
}

func TestStatusTerminal(t *testing.T) {
	if BookingActive.Terminal() {
		t.Error("active must not be terminal")
	}
	if !BookingPast.Terminal() {
		t.Error("past must be terminal")
	}
	if !BookingCancelled.Terminal() {
		t.Error("cancelled must be terminal")
	}
}

func TestIsCancellable(t *testing.T) {
	today := Date("2026-08-29")
	cases := []struct {
		name   string
		status BookingStatus
		date   Date
		want   bool
	}{
		{"active today", BookingActive, "2026-08-29", true},
		{"active tomorrow", BookingActive, "2026-08-30", true},
		{"active yesterday", BookingActive, "2026-08-28", false},
		{"cancelled today", BookingCancelled, "2026-08-29", false},
		{"past yesterday", BookingPast, "2026-08-28", false},
	}
	for _, tc := range cases {
		b := Booking{Status: tc.status, Date: tc.date}
		if got := b.IsCancellable(today); got != tc.want {
			t.Errorf("%s: IsCancellable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUpcoming(t *testing.T) {
	today := Date("2026-08-29")
	cases := []struct {
		date Date
		want bool
	}{
		{"2026-08-30", true},
		{"2026-08-29", false},
		{"2026-08-28", false},
	}
	for _, tc := range cases {
		b := Booking{Date: tc.date}
		if got := b.IsUpcoming(today); got != tc.want {
			t.Errorf("IsUpcoming(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestResourceHasSlot(t *testing.T) {
	r := Resource{TimeSlots: []string{"09:00-10:00", "10:00-11:00"}}
	if !r.HasSlot("09:00-10:00") {
		t.Error("declared slot not found")
	}
	if r.HasSlot("11:00-12:00") {
		t.Error("undeclared slot reported as present")
	}
}

func TestResourceAvailable(t *testing.T) {
	if (&Resource{AvailableUnits: 0}).Available() {
		t.Error("zero units must not be available")
	}
	if !(&Resource{AvailableUnits: 1}).Available() {
		t.Error("one unit must be available")
	}
}
