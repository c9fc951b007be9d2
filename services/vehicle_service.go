package services

import (
	"errors"

	"gorm.io/gorm"

	"vehicle-inspection-server/models"
)

// VehicleInput carries the fields accepted when registering a vehicle.
type VehicleInput struct {
	Plate string
	Make  string
	Model string
	Year  int
}

// VehiclePatch holds optional updates; nil fields are left untouched.
type VehiclePatch struct {
	Make  *string
	Model *string
	Year  *int
}

type VehicleService struct {
	db *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{db: db}
}

// Create registers a vehicle for ownerID in ACTIVO status. Only DUENIO
// accounts can register vehicles.
func (s *VehicleService) Create(input VehicleInput, ownerID uint) (*models.Vehicle, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidInputf("user with ID %d cannot register a vehicle", ownerID)
		}
		return nil, err
	}
	if owner.Role != models.RoleOwner {
		return nil, invalidInputf("only DUENIO accounts can register vehicles")
	}

	var existing models.Vehicle
	err := s.db.Where("plate = ?", input.Plate).First(&existing).Error
	if err == nil {
		return nil, conflictf("a vehicle with matricula %s already exists", input.Plate)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vehicle := models.Vehicle{
		Plate:     input.Plate,
		Make:      input.Make,
		ModelName: input.Model,
		Year:      input.Year,
		OwnerID:   ownerID,
		Status:    models.VehicleStatusActive,
	}
	if err := s.db.Create(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a vehicle with matricula %s already exists", input.Plate)
		}
		return nil, err
	}

	if err := s.db.Preload("Owner").First(&vehicle, vehicle.ID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *VehicleService) GetByPlate(plate string, requesterID uint, role models.Role) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Preload("Owner").Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}
	if !role.CanViewAnyVehicle() && vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only view your own vehicles")
	}
	return &vehicle, nil
}

// List returns every vehicle for ADMIN/INSPECTOR and only owned vehicles for
// DUENIO requesters.
func (s *VehicleService) List(requesterID uint, role models.Role) ([]models.Vehicle, error) {
	query := s.db.Preload("Owner")
	if !role.CanViewAnyVehicle() {
		query = query.Where("owner_id = ?", requesterID)
	}
	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update patches make, model and year. INACTIVO vehicles reject updates.
func (s *VehicleService) Update(plate string, patch VehiclePatch, requesterID uint, role models.Role) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}
	if vehicle.Status == models.VehicleStatusInactive {
		return nil, invalidStatef("an INACTIVO vehicle cannot be updated")
	}
	if role != models.RoleAdmin && vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only update your own vehicles")
	}

	updates := map[string]interface{}{}
	if patch.Make != nil {
		updates["make"] = *patch.Make
	}
	if patch.Model != nil {
		updates["model"] = *patch.Model
	}
	if patch.Year != nil {
		updates["year"] = *patch.Year
	}
	if len(updates) > 0 {
		if err := s.db.Model(&vehicle).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Owner").First(&vehicle, vehicle.ID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Deactivate is the one-way soft delete: ACTIVO/RECHEQUEAR -> INACTIVO.
// A second call fails with a conflict and leaves the record unchanged.
func (s *VehicleService) Deactivate(plate string, requesterID uint, role models.Role) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vehicle with matricula %s not found", plate)
		}
		return nil, err
	}
	if role != models.RoleAdmin && vehicle.OwnerID != requesterID {
		return nil, forbiddenf("you can only deactivate your own vehicles")
	}
	if vehicle.Status == models.VehicleStatusInactive {
		return nil, conflictf("vehicle %s is already INACTIVO", plate)
	}

	if err := s.db.Model(&vehicle).Update("status", models.VehicleStatusInactive).Error; err != nil {
		return nil, err
	}
	vehicle.Status = models.VehicleStatusInactive
	return &vehicle, nil
}
