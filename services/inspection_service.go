package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vehicle-inspection-server/models"
)

// ChequeoInput is one checklist item as submitted by an inspector.
type ChequeoInput struct {
	Descripcion string
	Puntuacion  int
}

// InspectionService opens, scores and closes inspections, cascading the
// verdict to the vehicle and the booking in one transaction.
type InspectionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInspectionService(db *gorm.DB) *InspectionService {
	return &InspectionService{db: db, now: time.Now}
}

func validateChecklist(items []ChequeoInput) error {
	if len(items) != models.ChecklistSize {
		return invalidInputf("exactly %d chequeos must be provided, got %d", models.ChecklistSize, len(items))
	}
	for _, item := range items {
		if item.Puntuacion < models.ScoreMin || item.Puntuacion > models.ScoreMax {
			return invalidInputf("chequeo scores must be between %d and %d", models.ScoreMin, models.ScoreMax)
		}
	}
	return nil
}

// Open creates an inspection against a CONFIRMADO booking. With chequeos
// supplied it runs the whole single-step flow: items are recorded, the
// verdict computed and the close cascade applied atomically. Without them the
// inspection opens PENDIENTE and is scored later.
func (s *InspectionService) Open(bookingID, inspectorID uint, items []ChequeoInput, observation string) (*models.Inspection, error) {
	var booking models.Booking
	if err := s.db.Preload("Vehicle").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("booking with ID %d not found", bookingID)
		}
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, invalidStatef("inspections can only be opened for CONFIRMADO bookings")
	}

	var count int64
	if err := s.db.Model(&models.Inspection{}).Where("booking_id = ?", bookingID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictf("booking %d already has an inspection", bookingID)
	}

	var inspector models.User
	if err := s.db.First(&inspector, inspectorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidInputf("inspector with ID %d not found", inspectorID)
		}
		return nil, err
	}
	if inspector.Role != models.RoleInspector {
		return nil, invalidInputf("user %d does not hold the INSPECTOR role", inspectorID)
	}

	inspection := models.Inspection{
		VehicleID:   booking.VehicleID,
		BookingID:   bookingID,
		InspectorID: inspectorID,
		Date:        s.now(),
		Status:      models.InspectionStatusPending,
	}

	if len(items) == 0 {
		// Two-step variant: open empty, chequeos come later.
		if err := s.db.Create(&inspection).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, conflictf("booking %d already has an inspection", bookingID)
			}
			return nil, err
		}
		return s.reload(inspection.ID)
	}

	if err := validateChecklist(items); err != nil {
		return nil, err
	}
	for _, item := range items {
		inspection.Chequeos = append(inspection.Chequeos, models.Chequeo{
			Description: item.Descripcion,
			Score:       item.Puntuacion,
			Date:        s.now(),
		})
	}
	inspection.Status = models.InspectionStatusInProgress

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inspection).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictf("booking %d already has an inspection", bookingID)
			}
			return err
		}
		return s.finalize(tx, &inspection, observation)
	})
	if err != nil {
		return nil, err
	}

	s.notifyVerdict(&inspection, booking.Vehicle)
	return s.reload(inspection.ID)
}

// RegisterChequeos records all 8 checklist items of a PENDIENTE inspection at
// once, moving it to EN_PROCESO. Partial and repeated submissions are
// rejected.
func (s *InspectionService) RegisterChequeos(inspectionID uint, items []ChequeoInput) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := s.db.Preload("Chequeos").First(&inspection, inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("inspection with ID %d not found", inspectionID)
		}
		return nil, err
	}
	if inspection.Status != models.InspectionStatusPending {
		return nil, invalidStatef("chequeos can only be registered on PENDIENTE inspections")
	}
	if len(inspection.Chequeos) > 0 {
		return nil, conflictf("this inspection already has chequeos registered")
	}
	if err := validateChecklist(items); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			chequeo := models.Chequeo{
				InspectionID: inspectionID,
				Description:  item.Descripcion,
				Score:        item.Puntuacion,
				Date:         s.now(),
			}
			if err := tx.Create(&chequeo).Error; err != nil {
				return err
			}
		}
		return tx.Model(&inspection).Update("status", models.InspectionStatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}
	return s.reload(inspectionID)
}

// Close computes the verdict of an EN_PROCESO inspection and atomically
// updates the inspection, the vehicle status and the linked booking.
func (s *InspectionService) Close(inspectionID uint, observation string) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := s.db.Preload("Chequeos").Preload("Vehicle").First(&inspection, inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("inspection with ID %d not found", inspectionID)
		}
		return nil, err
	}
	if inspection.Status != models.InspectionStatusInProgress {
		return nil, invalidStatef("only EN_PROCESO inspections can be closed")
	}
	if len(inspection.Chequeos) != models.ChecklistSize {
		return nil, invalidStatef("the inspection must have exactly %d chequeos before closing", models.ChecklistSize)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.finalize(tx, &inspection, observation)
	})
	if err != nil {
		return nil, err
	}

	s.notifyVerdict(&inspection, inspection.Vehicle)
	return s.reload(inspectionID)
}

// finalize applies the verdict and its cross-entity side effects inside the
// caller's transaction: inspection COMPLETADA, vehicle ACTIVO or RECHEQUEAR,
// booking COMPLETADO with its slot released.
func (s *InspectionService) finalize(tx *gorm.DB, inspection *models.Inspection, observation string) error {
	scores := make([]int, 0, len(inspection.Chequeos))
	for _, chequeo := range inspection.Chequeos {
		scores = append(scores, chequeo.Score)
	}

	verdict, total, _ := ComputeVerdict(scores)
	if verdict == models.ResultRecheck && !validObservation(observation) {
		return invalidInputf(
			"a RECHEQUEAR verdict requires an observation of at least %d characters describing the detected problems",
			observationMinLen)
	}

	vehicleStatus := models.VehicleStatusActive
	if verdict == models.ResultRecheck {
		vehicleStatus = models.VehicleStatusRecheck
	}

	if err := tx.Model(inspection).Updates(map[string]interface{}{
		"total_score": total,
		"result":      verdict,
		"observation": observation,
		"status":      models.InspectionStatusCompleted,
	}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Vehicle{}).Where("id = ?", inspection.VehicleID).
		Update("status", vehicleStatus).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Booking{}).Where("id = ?", inspection.BookingID).
		Updates(map[string]interface{}{"status": models.BookingStatusCompleted, "slot_key": nil}).Error; err != nil {
		return err
	}

	inspection.TotalScore = total
	inspection.Result = &verdict
	inspection.Observation = observation
	inspection.Status = models.InspectionStatusCompleted
	return nil
}

// notifyVerdict writes the owner's notification row. Failures are ignored;
// notifying never blocks a close.
func (s *InspectionService) notifyVerdict(inspection *models.Inspection, vehicle *models.Vehicle) {
	if vehicle == nil || inspection.Result == nil {
		return
	}
	notification := models.Notification{
		UserID:  vehicle.OwnerID,
		Type:    "inspection_result",
		Title:   "Inspection completed",
		Message: fmt.Sprintf("Vehicle %s was inspected, verdict: %s (total score %d)", vehicle.Plate, *inspection.Result, inspection.TotalScore),
		RefID:   inspection.ID,
		RefType: "inspection",
	}
	s.db.Create(&notification)
}

func (s *InspectionService) reload(id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := s.db.Preload("Chequeos").Preload("Vehicle").Preload("Inspector").Preload("Booking").
		First(&inspection, id).Error
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (s *InspectionService) GetByID(inspectionID, requesterID uint, role models.Role) (*models.Inspection, error) {
	inspection, err := s.reload(inspectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("inspection with ID %d not found", inspectionID)
		}
		return nil, err
	}
	if !role.CanViewAnyVehicle() && inspection.Vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only view inspections of your own vehicles")
	}
	return inspection, nil
}

func (s *InspectionService) ListByVehicle(plate string, requesterID uint, role models.Role) ([]models.Inspection, error) {
	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}
	if !role.CanViewAnyVehicle() && vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only view inspections of your own vehicles")
	}
	var inspections []models.Inspection
	if err := s.db.Preload("Inspector").Preload("Chequeos").Where("vehicle_id = ?", vehicle.ID).Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

func (s *InspectionService) ListByInspector(inspectorID, requesterID uint, role models.Role) ([]models.Inspection, error) {
	if role != models.RoleAdmin && inspectorID != requesterID {
		return nil, forbiddenf("you can only view your own inspections")
	}
	var inspector models.User
	if err := s.db.First(&inspector, inspectorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("inspector with ID %d not found", inspectorID)
		}
		return nil, err
	}
	var inspections []models.Inspection
	if err := s.db.Preload("Vehicle").Preload("Chequeos").Where("inspector_id = ?", inspectorID).Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

func (s *InspectionService) ListAll(role models.Role) ([]models.Inspection, error) {
	if role != models.RoleAdmin {
		return nil, forbiddenf("only administrators can list all inspections")
	}
	var inspections []models.Inspection
	if err := s.db.Preload("Vehicle").Preload("Inspector").Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}
