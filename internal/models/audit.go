// internal/models/audit.go
package models

import "github.com/google/uuid"

// AuditLog records every mutating API call. ResourceID is a string because
// participants use uuid ids while produce records use integer ids.
type AuditLog struct {
	BaseModel
	ParticipantID *uuid.UUID `json:"participant_id" gorm:"type:uuid;index"`
	Action        string     `json:"action" gorm:"size:255;not null"`
	ResourceType  string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID    string     `json:"resource_id" gorm:"size:64"`
	IPAddress     string     `json:"ip_address" gorm:"size:45"`
	UserAgent     string     `json:"user_agent" gorm:"size:255"`
	RequestData   JSONB      `json:"request_data" gorm:"type:jsonb"`
}
