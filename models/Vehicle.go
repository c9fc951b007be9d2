package models

import (
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "ACTIVO"
	VehicleStatusInactive VehicleStatus = "INACTIVO"
	VehicleStatusRecheck  VehicleStatus = "RECHEQUEAR"
)

// Vehicle is keyed by its license plate (matricula). Status starts ACTIVO and
// is only changed by the inspection close cascade or an explicit deactivation.
type Vehicle struct {
	gorm.Model
	Plate     string        `json:"matricula" gorm:"uniqueIndex;size:20;not null"`
	Make      string        `json:"marca" gorm:"size:50"`
	ModelName string        `json:"modelo" gorm:"column:model;size:50"`
	Year      int           `json:"anio"`
	OwnerID   uint          `json:"ownerID" gorm:"index;not null"`
	Status    VehicleStatus `json:"estado" gorm:"type:varchar(20);default:'ACTIVO';index"`

	Owner       *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Bookings    []Booking    `json:"bookings,omitempty" gorm:"foreignKey:VehicleID"`
	Inspections []Inspection `json:"inspections,omitempty" gorm:"foreignKey:VehicleID"`
}
