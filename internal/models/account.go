// internal/models/account.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is the row a person authenticates against. Code is nullable until
// a submission completes and attaches the applicant profile to it.
type Account struct {
	BaseModel
	Email          string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string        `json:"-" gorm:"size:255;not null"`
	Name           string        `json:"name" gorm:"size:255"`
	Code           *string       `json:"code" gorm:"size:20;index"`
	Status         AccountStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Role           AccountRole   `json:"role" gorm:"type:varchar(20);default:'applicant'"`
	ProfilePicture string        `json:"profile_picture" gorm:"size:512"`
	Documents      JSONB         `json:"documents" gorm:"type:jsonb"`
	LastLoginAt    *time.Time    `json:"last_login_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// SetPassword stores a bcrypt hash. The initial credential convention is the
// applicant's birth date; it is never persisted in the clear.
func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Account) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
