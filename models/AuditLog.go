package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records state-changing operations with before/after snapshots.
type AuditLog struct {
	gorm.Model
	ActorUserID  uint           `json:"actorUserID" gorm:"index"`
	Action       string         `json:"action" gorm:"size:50;index"`
	ResourceType string         `json:"resourceType" gorm:"size:30;index"`
	ResourceID   uint           `json:"resourceID"`
	Before       datatypes.JSON `json:"before"`
	After        datatypes.JSON `json:"after"`
	IPAddress    string         `json:"ipAddress" gorm:"size:45"`
}
