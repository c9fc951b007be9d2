package services

import (
	"time"

	"golang.org/x/exp/slices"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// ScheduleConfig describes when inspection slots exist. It is immutable and
// injected into the booking service at construction.
type ScheduleConfig struct {
	WorkingDays []time.Weekday
	OpeningHour int // first bookable hour, inclusive
	ClosingHour int // hour at which booking closes, exclusive
	HorizonDays int // default availability window length
}

// DefaultSchedule: Monday through Friday, whole hours in [9, 20), shown 15
// days ahead.
func DefaultSchedule() ScheduleConfig {
	return ScheduleConfig{
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		OpeningHour: 9,
		ClosingHour: 20,
		HorizonDays: 15,
	}
}

func (c ScheduleConfig) IsWorkingDay(t time.Time) bool {
	return slices.Contains(c.WorkingDays, t.Weekday())
}

func (c ScheduleConfig) InWorkingHours(t time.Time) bool {
	return t.Hour() >= c.OpeningHour && t.Hour() < c.ClosingHour
}

// Slot is one whole-hour appointment slot of the availability listing.
type Slot struct {
	Fecha      time.Time `json:"-"`
	Date       string    `json:"fecha"`
	Disponible bool      `json:"disponible"`
}

// EnumerateSlots lists every slot from the start of fromDay through the end
// of toDay (inclusive), skipping non-working days and slots not strictly in
// the future. taken reports whether a slot time is already occupied.
func (c ScheduleConfig) EnumerateSlots(fromDay, toDay, now time.Time, taken func(time.Time) bool) []Slot {
	slots := []Slot{}
	day := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, fromDay.Location())
	last := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 0, 0, 0, 0, toDay.Location())

	for !day.After(last) {
		if c.IsWorkingDay(day) {
			for hour := c.OpeningHour; hour < c.ClosingHour; hour++ {
				at := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
				if !at.After(now) {
					continue
				}
				slots = append(slots, Slot{
					Fecha:      at,
					Date:       at.Format(DateTimeLayout),
					Disponible: !taken(at),
				})
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}
