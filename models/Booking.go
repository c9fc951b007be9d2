package models

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusReserved  BookingStatus = "RESERVADO"
	BookingStatusConfirmed BookingStatus = "CONFIRMADO"
	BookingStatusCompleted BookingStatus = "COMPLETADO"
	BookingStatusCancelled BookingStatus = "CANCELADO"
)

// BookingTransitions is the whitelist of allowed status changes.
// COMPLETADO and CANCELADO are terminal.
var BookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusReserved:  {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	_, ok := BookingTransitions[status]
	return status, ok
}

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Holding reports whether the booking occupies its slot. Only RESERVADO and
// CONFIRMADO bookings block a (vehicle, datetime) pair.
func (s BookingStatus) Holding() bool {
	return s == BookingStatusReserved || s == BookingStatusConfirmed
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	allowed, ok := BookingTransitions[s]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}

// Booking ("turno") schedules a vehicle for inspection at a whole-hour slot.
type Booking struct {
	gorm.Model
	VehicleID   uint          `json:"vehicleID" gorm:"index;not null"`
	ScheduledAt time.Time     `json:"fecha" gorm:"index;not null"`
	Status      BookingStatus `json:"estado" gorm:"type:varchar(20);not null;index"`
	CreatedByID uint          `json:"createdBy" gorm:"index;not null"`

	// SlotKey backs the slot-uniqueness invariant at the storage layer: it is
	// set while the booking holds its slot and cleared on terminal states, so
	// the unique index never fires for COMPLETADO/CANCELADO rows.
	SlotKey *string `json:"-" gorm:"uniqueIndex;size:64"`

	Vehicle    *Vehicle    `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	CreatedBy  *User       `json:"creator,omitempty" gorm:"foreignKey:CreatedByID"`
	Inspection *Inspection `json:"inspection,omitempty" gorm:"foreignKey:BookingID"`
}

// SlotKeyFor builds the unique key for a held (vehicle, datetime) slot.
func SlotKeyFor(vehicleID uint, at time.Time) string {
	return fmt.Sprintf("%d@%s", vehicleID, at.UTC().Format("2006-01-02T15:04"))
}
