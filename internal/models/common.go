// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns ids client-side so they work on every dialect,
// including the sqlite databases the tests run against.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type AccountStatus string

const (
	AccountStatusCreated        AccountStatus = "created"
	AccountStatusPending        AccountStatus = "pending"
	AccountStatusVerified       AccountStatus = "verified"
	AccountStatusDeclined       AccountStatus = "declined"
	AccountStatusTerminated     AccountStatus = "terminated"
	AccountStatusRenewal        AccountStatus = "renewal"
	AccountStatusPendingRemarks AccountStatus = "pending_remarks"
)

type AccountRole string

const (
	AccountRoleApplicant  AccountRole = "applicant"
	AccountRoleAdmin      AccountRole = "admin"
	AccountRoleSuperAdmin AccountRole = "superadmin"
)

type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusSubmitted DocumentStatus = "submitted"
)

// NotificationType names the event log a feed entry came from.
type NotificationType string

const (
	NotificationTypeAccepted   NotificationType = "accepted"
	NotificationTypeDeclined   NotificationType = "declined"
	NotificationTypeTerminated NotificationType = "terminated"
	NotificationTypeRemarked   NotificationType = "remarked"
)

type CivilStatus string

const (
	CivilStatusSingle    CivilStatus = "single"
	CivilStatusMarried   CivilStatus = "married"
	CivilStatusWidowed   CivilStatus = "widowed"
	CivilStatusSeparated CivilStatus = "separated"
)
