// internal/services/testdb_test.go
package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/benepisyo/benefits-backend/internal/database"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/retry"
)

// newTestDB opens an isolated in-memory database with the full schema.
// The shared-cache name keeps the database alive across the pool's
// connections for the duration of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))
	return db
}

func testPolicy() retry.Policy {
	return retry.NewPolicy(3, time.Millisecond)
}

func sampleSubmission(email string) *SubmissionRequest {
	return &SubmissionRequest{
		Identity: IdentityForm{
			FirstName:     "Maria",
			LastName:      "Santos",
			Age:           34,
			BirthDate:     "1992-03-14",
			Address:       "123 Mabini St",
			Barangay:      "San Isidro",
			CivilStatus:   models.CivilStatusMarried,
			ContactNumber: "09171234567",
			Email:         email,
			IsBeneficiary: true,
		},
		Dependents: []DependentForm{
			{Name: "Juan Santos", Age: 8, Education: "Elementary", Relationship: "son"},
			{Name: "Ana Santos", Age: 5, Relationship: "daughter"},
		},
		Classification: "solo_parent",
		Needs:          "Medical assistance for dependents",
		EmergencyContact: &EmergencyContactForm{
			Name:         "Pedro Santos",
			Relationship: "brother",
			Phone:        "09179876543",
		},
	}
}

// seedAccount writes an account row directly, bypassing the submission
// pipeline, for tests that start mid-lifecycle.
func seedAccount(t *testing.T, db *gorm.DB, code string, status models.AccountStatus) *models.Account {
	t.Helper()

	account := &models.Account{
		Email:  code + "@example.com",
		Name:   "Test Applicant",
		Code:   &code,
		Status: status,
		Role:   models.AccountRoleApplicant,
	}
	require.NoError(t, account.SetPassword("1992-03-14"))
	require.NoError(t, db.Create(account).Error)
	return account
}

// seedApplicant writes the identity row a document operation requires.
func seedApplicant(t *testing.T, db *gorm.DB, code string) *models.Applicant {
	t.Helper()

	applicant := &models.Applicant{
		Code:      code,
		FirstName: "Maria",
		LastName:  "Santos",
		BirthDate: "1992-03-14",
		Address:   "123 Mabini St",
		Email:     code + "@example.com",
	}
	require.NoError(t, db.Create(applicant).Error)
	return applicant
}
