package models

import (
	"gorm.io/gorm"
)

// Role is the closed set of account roles. DUENIO owns vehicles, INSPECTOR
// performs inspections, ADMIN bypasses ownership checks.
type Role string

const (
	RoleOwner     Role = "DUENIO"
	RoleInspector Role = "INSPECTOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleInspector, RoleAdmin:
		return true
	}
	return false
}

// CanViewAnyVehicle reports whether the role may read vehicles and
// inspections it does not own.
func (r Role) CanViewAnyVehicle() bool {
	return r == RoleAdmin || r == RoleInspector
}

type User struct {
	gorm.Model
	FullName string `json:"fullName"`
	Email    string `json:"email" gorm:"uniqueIndex;size:100"`
	Phone    string `json:"phone" gorm:"size:20"`
	Password string `json:"-"`
	Role     Role   `json:"role" gorm:"type:varchar(20);not null;index"`
	Active   *bool  `json:"active" gorm:"default:true"`

	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}
