// internal/models/event_log.go
package models

import (
	"github.com/google/uuid"
)

// The four event logs are append-only. Rows are written by the status
// transition engine, mutated only to flip the read flag, never deleted.

type AcceptedLog struct {
	BaseModel
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"default:false;index"`
}

func (AcceptedLog) TableName() string {
	return "accepted_logs"
}

type DeclinedLog struct {
	BaseModel
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	Remarks   string    `json:"remarks" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"default:false;index"`
}

func (DeclinedLog) TableName() string {
	return "declined_logs"
}

type TerminatedLog struct {
	BaseModel
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	Remarks   string    `json:"remarks" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"default:false;index"`
}

func (TerminatedLog) TableName() string {
	return "terminated_logs"
}

type RemarkedLog struct {
	BaseModel
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	Remarks   string    `json:"remarks" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"default:false;index"`
}

func (RemarkedLog) TableName() string {
	return "remarked_logs"
}

type AuditLog struct {
	BaseModel
	AccountID    *uuid.UUID `json:"account_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id" gorm:"size:100;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
