package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vehicle-inspection-server/models"
)

// testNow is the fixed clock of the service tests: Monday 2025-03-03 08:00 UTC.
var testNow = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Booking{},
		&models.Inspection{},
		&models.Chequeo{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		FullName: "Test " + string(role),
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

func seedVehicle(t *testing.T, db *gorm.DB, plate string, ownerID uint, status models.VehicleStatus) *models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		Plate:     plate,
		Make:      "Toyota",
		ModelName: "Corolla",
		Year:      2019,
		OwnerID:   ownerID,
		Status:    status,
	}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle %s: %v", plate, err)
	}
	return &vehicle
}

func seedBooking(t *testing.T, db *gorm.DB, vehicle *models.Vehicle, at time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := models.Booking{
		VehicleID:   vehicle.ID,
		ScheduledAt: at,
		Status:      status,
		CreatedByID: vehicle.OwnerID,
	}
	if status.Holding() {
		key := models.SlotKeyFor(vehicle.ID, at)
		booking.SlotKey = &key
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &booking
}

func perfectChecklist() []ChequeoInput {
	items := make([]ChequeoInput, 0, models.ChecklistSize)
	for i := 0; i < models.ChecklistSize; i++ {
		items = append(items, ChequeoInput{Descripcion: "chequeo ok", Puntuacion: 10})
	}
	return items
}

func failingChecklist() []ChequeoInput {
	scores := []int{5, 5, 5, 5, 5, 3, 3, 3}
	items := make([]ChequeoInput, 0, len(scores))
	for _, score := range scores {
		items = append(items, ChequeoInput{Descripcion: "chequeo con falla", Puntuacion: score})
	}
	return items
}
