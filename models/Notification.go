package models

import (
	"gorm.io/gorm"
)

// Notification is an in-app message for a user, written when their booking
// changes status or an inspection verdict lands on their vehicle.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index;not null"`
	Type    string `json:"type" gorm:"size:50"` // booking_status, inspection_result
	Title   string `json:"title"`
	Message string `json:"message"`
	RefID   uint   `json:"refID"`
	RefType string `json:"refType" gorm:"size:30"` // booking, inspection
	IsRead  bool   `json:"isRead" gorm:"default:false;index"`
}
