package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vehicle-inspection-server/models"
)

var holdingStatuses = []models.BookingStatus{models.BookingStatusReserved, models.BookingStatusConfirmed}

// BookingService implements the slot availability calculator and the booking
// lifecycle. The schedule is fixed at construction time.
type BookingService struct {
	db       *gorm.DB
	schedule ScheduleConfig
	now      func() time.Time
}

func NewBookingService(db *gorm.DB, schedule ScheduleConfig) *BookingService {
	return &BookingService{db: db, schedule: schedule, now: time.Now}
}

type AvailabilityResult struct {
	Slots          []Slot `json:"slots"`
	TotalAvailable int    `json:"totalAvailable"`
}

// Availability enumerates slots between startDate and endDate ("YYYY-MM-DD",
// both optional). Defaults: start today, end start plus the schedule horizon.
// A slot is available when no RESERVADO/CONFIRMADO booking exists at that
// exact time, regardless of vehicle.
func (s *BookingService) Availability(startDate, endDate string) (*AvailabilityResult, error) {
	now := s.now()

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startDate != "" {
		parsed, err := time.ParseInLocation(DateLayout, startDate, now.Location())
		if err != nil {
			return nil, invalidInputf("invalid startDate, expected format YYYY-MM-DD")
		}
		start = parsed
	}

	end := start.AddDate(0, 0, s.schedule.HorizonDays)
	if endDate != "" {
		parsed, err := time.ParseInLocation(DateLayout, endDate, now.Location())
		if err != nil {
			return nil, invalidInputf("invalid endDate, expected format YYYY-MM-DD")
		}
		if parsed.Before(start) {
			return nil, invalidInputf("endDate must be on or after startDate")
		}
		end = parsed
	}

	var times []time.Time
	if err := s.db.Model(&models.Booking{}).
		Where("scheduled_at >= ? AND scheduled_at < ? AND status IN ?", start, end.AddDate(0, 0, 1), holdingStatuses).
		Pluck("scheduled_at", &times).Error; err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(times))
	for _, t := range times {
		taken[t.Unix()] = true
	}

	slots := s.schedule.EnumerateSlots(start, end, now, func(at time.Time) bool {
		return taken[at.Unix()]
	})

	available := 0
	for _, slot := range slots {
		if slot.Disponible {
			available++
		}
	}
	return &AvailabilityResult{Slots: slots, TotalAvailable: available}, nil
}

// Reserve creates a booking in RESERVADO state for the vehicle with the given
// plate at fecha ("YYYY-MM-DD HH:MM"). Non-admin requesters must own the
// vehicle and the vehicle must be ACTIVO.
func (s *BookingService) Reserve(plate, fecha string, requesterID uint, role models.Role) (*models.Booking, error) {
	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}

	var requester models.User
	if err := s.db.First(&requester, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user with ID %d not found", requesterID)
		}
		return nil, err
	}

	if role != models.RoleAdmin {
		if vehicle.OwnerID != requesterID {
			return nil, forbiddenf("you can only create bookings for your own vehicles")
		}
		if vehicle.Status != models.VehicleStatusActive {
			return nil, invalidStatef("cannot create bookings for a vehicle in %s status, the vehicle must be ACTIVO", vehicle.Status)
		}
	}

	now := s.now()
	at, err := time.ParseInLocation(DateTimeLayout, fecha, now.Location())
	if err != nil {
		return nil, invalidInputf("invalid fecha, expected format YYYY-MM-DD HH:MM")
	}
	if !at.After(now) {
		return nil, invalidInputf("the booking date must be in the future")
	}
	if !s.schedule.IsWorkingDay(at) {
		return nil, invalidInputf("bookings can only be scheduled on weekdays, Monday through Friday")
	}
	if !s.schedule.InWorkingHours(at) {
		return nil, invalidInputf("bookings can only be scheduled between %d:00 and %d:00", s.schedule.OpeningHour, s.schedule.ClosingHour)
	}

	// Application-level check first for a clean message; the unique SlotKey
	// index closes the check-then-insert race under concurrent requests.
	var existing models.Booking
	err = s.db.Where("vehicle_id = ? AND scheduled_at = ? AND status IN ?", vehicle.ID, at, holdingStatuses).First(&existing).Error
	if err == nil {
		return nil, conflictf("a booking already exists for this vehicle at that date and time")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slotKey := models.SlotKeyFor(vehicle.ID, at)
	booking := models.Booking{
		VehicleID:   vehicle.ID,
		ScheduledAt: at,
		Status:      models.BookingStatusReserved,
		CreatedByID: requesterID,
		SlotKey:     &slotKey,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a booking already exists for this vehicle at that date and time")
		}
		return nil, err
	}

	if err := s.db.Preload("Vehicle").Preload("CreatedBy").First(&booking, booking.ID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus applies one transition of the booking state machine.
func (s *BookingService) UpdateStatus(bookingID uint, newStatus string, requesterID uint, role models.Role) (*models.Booking, error) {
	to, ok := models.ParseBookingStatus(newStatus)
	if !ok {
		return nil, invalidInputf("unknown booking status %q", newStatus)
	}

	var booking models.Booking
	if err := s.db.Preload("Vehicle").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("booking with ID %d not found", bookingID)
		}
		return nil, err
	}

	if booking.Status.Terminal() {
		return nil, invalidStatef("booking is %s and does not allow further status changes", booking.Status)
	}
	if role != models.RoleAdmin && booking.Vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only manage bookings for your own vehicles")
	}
	if !booking.Status.CanTransition(to) {
		return nil, invalidTransitionf("invalid status transition: %s -> %s", booking.Status, to)
	}

	updates := map[string]interface{}{"status": to}
	if !to.Holding() {
		updates["slot_key"] = nil
	}
	if err := s.db.Model(&booking).Updates(updates).Error; err != nil {
		return nil, err
	}
	booking.Status = to
	if !to.Holding() {
		booking.SlotKey = nil
	}

	s.notifyStatusChange(&booking)

	return &booking, nil
}

// notifyStatusChange writes the owner's notification row. Failures are
// ignored; notifying never blocks a transition.
func (s *BookingService) notifyStatusChange(booking *models.Booking) {
	if booking.Vehicle == nil {
		return
	}
	var title string
	switch booking.Status {
	case models.BookingStatusConfirmed:
		title = "Booking confirmed"
	case models.BookingStatusCancelled:
		title = "Booking cancelled"
	default:
		return
	}
	notification := models.Notification{
		UserID:  booking.Vehicle.OwnerID,
		Type:    "booking_status",
		Title:   title,
		Message: fmt.Sprintf("The booking for vehicle %s on %s is now %s", booking.Vehicle.Plate, booking.ScheduledAt.Format(DateTimeLayout), booking.Status),
		RefID:   booking.ID,
		RefType: "booking",
	}
	s.db.Create(&notification)
}

func (s *BookingService) GetByID(bookingID, requesterID uint, role models.Role) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Vehicle").Preload("CreatedBy").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("booking with ID %d not found", bookingID)
		}
		return nil, err
	}
	if role != models.RoleAdmin && booking.Vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only view bookings for your own vehicles")
	}
	return &booking, nil
}

// ListByUser returns the bookings a user created plus the bookings on
// vehicles they own, so owners also see bookings an admin made for them.
func (s *BookingService) ListByUser(userID, requesterID uint, role models.Role) ([]models.Booking, error) {
	if role != models.RoleAdmin && userID != requesterID {
		return nil, forbiddenf("you can only list your own bookings")
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user with ID %d not found", userID)
		}
		return nil, err
	}
	ownedVehicles := s.db.Model(&models.Vehicle{}).Select("id").Where("owner_id = ?", userID)
	var bookings []models.Booking
	if err := s.db.Preload("Vehicle").
		Where("created_by_id = ? OR vehicle_id IN (?)", userID, ownedVehicles).
		Order("scheduled_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) ListByVehicle(plate string, requesterID uint, role models.Role) ([]models.Booking, error) {
	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}
	if role != models.RoleAdmin && vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only list bookings for your own vehicles")
	}
	var bookings []models.Booking
	if err := s.db.Preload("CreatedBy").Where("vehicle_id = ?", vehicle.ID).Order("scheduled_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) ListAll(role models.Role) ([]models.Booking, error) {
	if role != models.RoleAdmin {
		return nil, forbiddenf("only administrators can list all bookings")
	}
	var bookings []models.Booking
	if err := s.db.Preload("Vehicle").Preload("CreatedBy").Order("scheduled_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
