package models

import (
	"time"

	"gorm.io/gorm"
)

type InspectionStatus string

const (
	InspectionStatusPending    InspectionStatus = "PENDIENTE"
	InspectionStatusInProgress InspectionStatus = "EN_PROCESO"
	InspectionStatusCompleted  InspectionStatus = "COMPLETADA"
)

// InspectionResult is the verdict computed when an inspection closes.
type InspectionResult string

const (
	ResultSafe    InspectionResult = "SEGURO"
	ResultRecheck InspectionResult = "RECHEQUEAR"
)

const (
	// ChecklistSize is the fixed number of chequeos per inspection.
	ChecklistSize = 8
	ScoreMin      = 1
	ScoreMax      = 10
)

// Inspection is 1:1 with a confirmed booking and owns exactly ChecklistSize
// chequeos once scored. Append-only after completion.
type Inspection struct {
	gorm.Model
	VehicleID   uint              `json:"vehicleID" gorm:"index;not null"`
	BookingID   uint              `json:"bookingID" gorm:"uniqueIndex;not null"`
	InspectorID uint              `json:"inspectorID" gorm:"index;not null"`
	Date        time.Time         `json:"fecha"`
	TotalScore  int               `json:"totalScore"`
	Result      *InspectionResult `json:"resultado" gorm:"type:varchar(20)"`
	Observation string            `json:"observacion" gorm:"type:text"`
	Status      InspectionStatus  `json:"estado" gorm:"type:varchar(20);not null;index"`

	Vehicle   *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Booking   *Booking  `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Inspector *User     `json:"inspector,omitempty" gorm:"foreignKey:InspectorID"`
	Chequeos  []Chequeo `json:"chequeos" gorm:"foreignKey:InspectionID"`
}

// Chequeo is a single scored checklist item.
type Chequeo struct {
	gorm.Model
	InspectionID uint      `json:"inspectionID" gorm:"index;not null"`
	Description  string    `json:"descripcion" gorm:"size:200;not null"`
	Score        int       `json:"puntuacion" gorm:"not null"`
	Date         time.Time `json:"fecha"`
}
