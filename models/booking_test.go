package models

import (
	"testing"
	"time"
)

func TestBookingStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"reserved to confirmed", BookingStatusReserved, BookingStatusConfirmed, true},
		{"reserved to cancelled", BookingStatusReserved, BookingStatusCancelled, true},
		{"reserved to completed", BookingStatusReserved, BookingStatusCompleted, false},
		{"confirmed to completed", BookingStatusConfirmed, BookingStatusCompleted, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"confirmed back to reserved", BookingStatusConfirmed, BookingStatusReserved, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusReserved, false},
		{"unknown source", BookingStatus("PENDIENTE"), BookingStatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseBookingStatus(t *testing.T) {
	if _, ok := ParseBookingStatus("CONFIRMADO"); !ok {
		t.Error("expected CONFIRMADO to parse")
	}
	if _, ok := ParseBookingStatus("confirmado"); ok {
		t.Error("statuses are case sensitive, lowercase must not parse")
	}
	if _, ok := ParseBookingStatus("APROBADO"); ok {
		t.Error("unknown status must not parse")
	}
}

func TestBookingStatusTerminalAndHolding(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusReserved, BookingStatusConfirmed} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
		if !s.Holding() {
			t.Errorf("%s must hold its slot", s)
		}
	}
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
		if s.Holding() {
			t.Errorf("%s must not hold its slot", s)
		}
	}
}

func TestSlotKeyFor(t *testing.T) {
	at := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	if got, want := SlotKeyFor(7, at), "7@2025-03-04T10:00"; got != want {
		t.Errorf("SlotKeyFor = %q, want %q", got, want)
	}

	// Same instant in another zone must produce the same key.
	buenosAires := time.FixedZone("ART", -3*60*60)
	if got := SlotKeyFor(7, at.In(buenosAires)); got != SlotKeyFor(7, at) {
		t.Errorf("slot key must be timezone independent, got %q", got)
	}
}
