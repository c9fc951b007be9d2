package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"vehicle-inspection-server/models"
)

type inspectionFixture struct {
	db        *gorm.DB
	svc       *InspectionService
	owner     *models.User
	inspector *models.User
	vehicle   *models.Vehicle
	booking   *models.Booking
}

func newInspectionFixture(t *testing.T) *inspectionFixture {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, "duenio@test.com", models.RoleOwner)
	inspector := seedUser(t, db, "inspector@test.com", models.RoleInspector)
	vehicle := seedVehicle(t, db, "ABC123", owner.ID, models.VehicleStatusActive)
	at := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	booking := seedBooking(t, db, vehicle, at, models.BookingStatusConfirmed)

	svc := NewInspectionService(db)
	svc.now = func() time.Time { return testNow }
	return &inspectionFixture{db: db, svc: svc, owner: owner, inspector: inspector, vehicle: vehicle, booking: booking}
}

func (f *inspectionFixture) reloadBooking(t *testing.T) *models.Booking {
	t.Helper()
	var booking models.Booking
	if err := f.db.First(&booking, f.booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	return &booking
}

func (f *inspectionFixture) reloadVehicle(t *testing.T) *models.Vehicle {
	t.Helper()
	var vehicle models.Vehicle
	if err := f.db.First(&vehicle, f.vehicle.ID).Error; err != nil {
		t.Fatalf("reload vehicle: %v", err)
	}
	return &vehicle
}

func TestOpenSingleStepSafeVerdict(t *testing.T) {
	f := newInspectionFixture(t)

	inspection, err := f.svc.Open(f.booking.ID, f.inspector.ID, perfectChecklist(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if inspection.Status != models.InspectionStatusCompleted {
		t.Errorf("status = %s, want COMPLETADA", inspection.Status)
	}
	if inspection.Result == nil || *inspection.Result != models.ResultSafe {
		t.Fatalf("result = %v, want SEGURO", inspection.Result)
	}
	if inspection.TotalScore != 80 {
		t.Errorf("totalScore = %d, want 80", inspection.TotalScore)
	}
	if len(inspection.Chequeos) != models.ChecklistSize {
		t.Errorf("got %d chequeos, want %d", len(inspection.Chequeos), models.ChecklistSize)
	}

	if got := f.reloadVehicle(t).Status; got != models.VehicleStatusActive {
		t.Errorf("vehicle status = %s, want ACTIVO", got)
	}
	booking := f.reloadBooking(t)
	if booking.Status != models.BookingStatusCompleted {
		t.Errorf("booking status = %s, want COMPLETADO", booking.Status)
	}
	if booking.SlotKey != nil {
		t.Error("a COMPLETADO booking must release its slot key")
	}

	var notifications int64
	f.db.Model(&models.Notification{}).Where("user_id = ? AND type = ?", f.owner.ID, "inspection_result").Count(&notifications)
	if notifications != 1 {
		t.Errorf("verdict must notify the owner, got %d notifications", notifications)
	}
}

func TestOpenFailingScoresRequireObservation(t *testing.T) {
	f := newInspectionFixture(t)

	_, err := f.svc.Open(f.booking.ID, f.inspector.ID, failingChecklist(), "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	// The rejected attempt must leave nothing behind.
	var count int64
	f.db.Model(&models.Inspection{}).Count(&count)
	if count != 0 {
		t.Fatalf("rolled-back inspection persisted, count = %d", count)
	}
	if got := f.reloadBooking(t).Status; got != models.BookingStatusConfirmed {
		t.Errorf("booking status = %s, want CONFIRMADO untouched", got)
	}

	inspection, err := f.svc.Open(f.booking.ID, f.inspector.ID, failingChecklist(), "frenos y luces en mal estado")
	if err != nil {
		t.Fatalf("Open with observation: %v", err)
	}
	if inspection.Result == nil || *inspection.Result != models.ResultRecheck {
		t.Fatalf("result = %v, want RECHEQUEAR", inspection.Result)
	}
	if inspection.TotalScore != 34 {
		t.Errorf("totalScore = %d, want 34", inspection.TotalScore)
	}
	if got := f.reloadVehicle(t).Status; got != models.VehicleStatusRecheck {
		t.Errorf("vehicle status = %s, want RECHEQUEAR", got)
	}
	if got := f.reloadBooking(t).Status; got != models.BookingStatusCompleted {
		t.Errorf("booking status = %s, want COMPLETADO", got)
	}
}

func TestOpenPreconditions(t *testing.T) {
	f := newInspectionFixture(t)

	reserved := seedBooking(t, f.db, f.vehicle, time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC), models.BookingStatusReserved)
	if _, err := f.svc.Open(reserved.ID, f.inspector.ID, nil, ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RESERVADO booking: err = %v, want ErrInvalidState", err)
	}
	if _, err := f.svc.Open(9999, f.inspector.ID, nil, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown booking: err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.Open(f.booking.ID, f.owner.ID, nil, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("DUENIO as inspector: err = %v, want ErrInvalidInput", err)
	}

	if _, err := f.svc.Open(f.booking.ID, f.inspector.ID, nil, ""); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := f.svc.Open(f.booking.ID, f.inspector.ID, nil, ""); !errors.Is(err, ErrConflict) {
		t.Errorf("second inspection on booking: err = %v, want ErrConflict", err)
	}
}

func TestInspectionPerBookingUniqueIndex(t *testing.T) {
	f := newInspectionFixture(t)

	if _, err := f.svc.Open(f.booking.ID, f.inspector.ID, nil, ""); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// A concurrent insert that slips past the count pre-check is stopped by
	// the unique index on booking_id.
	duplicate := models.Inspection{
		VehicleID:   f.vehicle.ID,
		BookingID:   f.booking.ID,
		InspectorID: f.inspector.ID,
		Date:        testNow,
		Status:      models.InspectionStatusPending,
	}
	err := f.db.Create(&duplicate).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate inspection insert: err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestTwoStepFlow(t *testing.T) {
	f := newInspectionFixture(t)

	inspection, err := f.svc.Open(f.booking.ID, f.inspector.ID, nil, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if inspection.Status != models.InspectionStatusPending {
		t.Fatalf("status = %s, want PENDIENTE", inspection.Status)
	}

	// Closing without chequeos is rejected.
	if _, err := f.svc.Close(inspection.ID, ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("close PENDIENTE: err = %v, want ErrInvalidState", err)
	}

	// Partial checklists are rejected.
	if _, err := f.svc.RegisterChequeos(inspection.ID, perfectChecklist()[:5]); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("partial checklist: err = %v, want ErrInvalidInput", err)
	}

	inspection, err = f.svc.RegisterChequeos(inspection.ID, perfectChecklist())
	if err != nil {
		t.Fatalf("RegisterChequeos: %v", err)
	}
	if inspection.Status != models.InspectionStatusInProgress {
		t.Fatalf("status = %s, want EN_PROCESO", inspection.Status)
	}

	// A second submission conflicts.
	if _, err := f.svc.RegisterChequeos(inspection.ID, perfectChecklist()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("repeated chequeos: err = %v, want ErrInvalidState", err)
	}

	closed, err := f.svc.Close(inspection.ID, "")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != models.InspectionStatusCompleted {
		t.Errorf("status = %s, want COMPLETADA", closed.Status)
	}
	if closed.Result == nil || *closed.Result != models.ResultSafe {
		t.Fatalf("result = %v, want SEGURO", closed.Result)
	}

	// Closed inspections are append-only.
	if _, err := f.svc.Close(inspection.ID, ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double close: err = %v, want ErrInvalidState", err)
	}
}

func TestChecklistScoreBounds(t *testing.T) {
	f := newInspectionFixture(t)

	items := perfectChecklist()
	items[3].Puntuacion = 0
	if _, err := f.svc.Open(f.booking.ID, f.inspector.ID, items, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("score 0: err = %v, want ErrInvalidInput", err)
	}

	items = perfectChecklist()
	items[3].Puntuacion = 11
	if _, err := f.svc.Open(f.booking.ID, f.inspector.ID, items, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("score 11: err = %v, want ErrInvalidInput", err)
	}
}

func TestInspectionViewScoping(t *testing.T) {
	f := newInspectionFixture(t)
	other := seedUser(t, f.db, "otro@test.com", models.RoleOwner)
	admin := seedUser(t, f.db, "admin@test.com", models.RoleAdmin)

	inspection, err := f.svc.Open(f.booking.ID, f.inspector.ID, perfectChecklist(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := f.svc.GetByID(inspection.ID, other.ID, other.Role); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger GetByID: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.GetByID(inspection.ID, f.owner.ID, f.owner.Role); err != nil {
		t.Errorf("owner GetByID: %v", err)
	}
	if _, err := f.svc.GetByID(inspection.ID, f.inspector.ID, f.inspector.Role); err != nil {
		t.Errorf("inspector GetByID: %v", err)
	}

	if _, err := f.svc.ListByVehicle("ABC123", other.ID, other.Role); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger ListByVehicle: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.ListByInspector(f.inspector.ID, other.ID, other.Role); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger ListByInspector: err = %v, want ErrForbidden", err)
	}
	mine, err := f.svc.ListByInspector(f.inspector.ID, f.inspector.ID, f.inspector.Role)
	if err != nil {
		t.Fatalf("inspector ListByInspector: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("got %d inspections, want 1", len(mine))
	}

	if _, err := f.svc.ListAll(f.inspector.Role); !errors.Is(err, ErrForbidden) {
		t.Errorf("inspector ListAll: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.ListAll(admin.Role); err != nil {
		t.Errorf("admin ListAll: %v", err)
	}
}
