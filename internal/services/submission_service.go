// internal/services/submission_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/database"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/retry"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// SubmissionService turns the six-step form into one atomic applicant
// record: identity first, then dependents, classification, needs, the
// optional emergency contact, and the account upsert. Either all of it
// commits or none of it is visible.
type SubmissionService struct {
	db     *gorm.DB
	policy retry.Policy
}

type IdentityForm struct {
	FirstName        string             `json:"first_name" validate:"required"`
	MiddleName       string             `json:"middle_name,omitempty"`
	LastName         string             `json:"last_name" validate:"required"`
	Age              int                `json:"age" validate:"gte=0"`
	Gender           string             `json:"gender,omitempty"`
	BirthDate        string             `json:"birth_date" validate:"required,birth_date"`
	BirthPlace       string             `json:"birth_place,omitempty"`
	Address          string             `json:"address" validate:"required"`
	Barangay         string             `json:"barangay,omitempty"`
	Education        string             `json:"education,omitempty"`
	CivilStatus      models.CivilStatus `json:"civil_status,omitempty"`
	Occupation       string             `json:"occupation,omitempty"`
	IncomeBracket    string             `json:"income_bracket,omitempty"`
	EmploymentStatus string             `json:"employment_status,omitempty"`
	ContactNumber    string             `json:"contact_number,omitempty"`
	Email            string             `json:"email" validate:"required,email"`
	IsBeneficiary    bool               `json:"is_beneficiary"`
	IsIndigent       bool               `json:"is_indigent"`
}

type DependentForm struct {
	Name         string `json:"name" validate:"required"`
	Age          int    `json:"age" validate:"gte=0"`
	Education    string `json:"education,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type EmergencyContactForm struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type SubmissionRequest struct {
	Identity         IdentityForm          `json:"identity" validate:"required"`
	Dependents       []DependentForm       `json:"dependents,omitempty" validate:"dive"`
	Classification   string                `json:"classification" validate:"required"`
	Needs            string                `json:"needs,omitempty"`
	EmergencyContact *EmergencyContactForm `json:"emergency_contact,omitempty"`
}

type SubmissionResult struct {
	Code string `json:"code"`
}

func NewSubmissionService(db *gorm.DB, policy retry.Policy) *SubmissionService {
	return &SubmissionService{
		db:     db,
		policy: policy,
	}
}

// Submit runs the duplicate-email precheck, allocates a code, and writes
// the applicant profile plus the account row as a single unit of work.
// A duplicate email returns the existing code as a recovery hint.
func (s *SubmissionService) Submit(req *SubmissionRequest) (*SubmissionResult, error) {
	// Normalize before validation; a padded mixed-case address must pass
	// the email tag and still collide with its lowercase twin.
	email := strings.ToLower(strings.TrimSpace(req.Identity.Email))
	req.Identity.Email = email

	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Precondition check: one identity record per email
	var existing models.Applicant
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, &DuplicateEmailError{Email: email, Code: existing.Code}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err)
	}

	var code string
	err := s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			allocated, err := s.allocateCode(tx)
			if err != nil {
				return err
			}
			code = allocated

			// Identity record is always written first; the other rows
			// reference it through the code.
			applicant := &models.Applicant{
				Code:             code,
				FirstName:        req.Identity.FirstName,
				MiddleName:       req.Identity.MiddleName,
				LastName:         req.Identity.LastName,
				Age:              req.Identity.Age,
				Gender:           req.Identity.Gender,
				BirthDate:        req.Identity.BirthDate,
				BirthPlace:       req.Identity.BirthPlace,
				Address:          req.Identity.Address,
				Barangay:         req.Identity.Barangay,
				Education:        req.Identity.Education,
				CivilStatus:      req.Identity.CivilStatus,
				Occupation:       req.Identity.Occupation,
				IncomeBracket:    req.Identity.IncomeBracket,
				EmploymentStatus: req.Identity.EmploymentStatus,
				ContactNumber:    req.Identity.ContactNumber,
				Email:            email,
				IsBeneficiary:    req.Identity.IsBeneficiary,
				IsIndigent:       req.Identity.IsIndigent,
			}
			if err := tx.Create(applicant).Error; err != nil {
				return wrapStoreError(err)
			}

			for _, dep := range req.Dependents {
				dependent := &models.Dependent{
					Code:         code,
					Name:         dep.Name,
					Age:          dep.Age,
					Education:    dep.Education,
					Relationship: dep.Relationship,
				}
				if err := tx.Create(dependent).Error; err != nil {
					return wrapStoreError(err)
				}
			}

			classification := &models.Classification{Code: code, Value: req.Classification}
			if err := tx.Create(classification).Error; err != nil {
				return wrapStoreError(err)
			}

			needs := &models.Needs{Code: code, Text: req.Needs}
			if err := tx.Create(needs).Error; err != nil {
				return wrapStoreError(err)
			}

			if req.EmergencyContact != nil {
				contact := &models.EmergencyContact{
					Code:         code,
					Name:         req.EmergencyContact.Name,
					Relationship: req.EmergencyContact.Relationship,
					Address:      req.EmergencyContact.Address,
					Phone:        req.EmergencyContact.Phone,
				}
				if err := tx.Create(contact).Error; err != nil {
					return wrapStoreError(err)
				}
			}

			return s.upsertAccount(tx, applicant, code)
		})
	})
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{Code: code}, nil
}

// allocateCode draws codes until one is unused. Collisions are possible
// within a month because the suffix is only six random digits.
func (s *SubmissionService) allocateCode(tx *gorm.DB) (string, error) {
	const maxDraws = 5

	for i := 0; i < maxDraws; i++ {
		code, err := utils.GenerateApplicantCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Applicant{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", wrapStoreError(err)
		}
		if count == 0 {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to allocate an unused applicant code after %d draws", maxDraws)
}

// upsertAccount attaches the new code to an existing account for the email,
// or creates one with status Pending. The initial credential is the birth
// date, stored hashed.
func (s *SubmissionService) upsertAccount(tx *gorm.DB, applicant *models.Applicant, code string) error {
	var account models.Account
	err := tx.Where("email = ?", applicant.Email).First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			Email:  applicant.Email,
			Name:   strings.TrimSpace(applicant.FirstName + " " + applicant.LastName),
			Code:   &code,
			Status: models.AccountStatusPending,
			Role:   models.AccountRoleApplicant,
		}
		if err := account.SetPassword(applicant.BirthDate); err != nil {
			return fmt.Errorf("failed to hash initial credential: %w", err)
		}
		if err := tx.Create(&account).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	} else if err != nil {
		return wrapStoreError(err)
	}

	account.Code = &code
	account.Status = models.AccountStatusPending
	if err := tx.Save(&account).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// GetApplicant loads the full profile for a code.
func (s *SubmissionService) GetApplicant(code string) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := s.db.Where("code = ?", code).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownApplicant
		}
		return nil, wrapStoreError(err)
	}
	return &applicant, nil
}

// ApplicantProfile is the full multi-table projection for one code.
type ApplicantProfile struct {
	Applicant        models.Applicant         `json:"applicant"`
	Dependents       []models.Dependent       `json:"dependents"`
	Classification   *models.Classification   `json:"classification,omitempty"`
	Needs            *models.Needs            `json:"needs,omitempty"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact,omitempty"`
}

func (s *SubmissionService) GetProfile(code string) (*ApplicantProfile, error) {
	applicant, err := s.GetApplicant(code)
	if err != nil {
		return nil, err
	}

	profile := &ApplicantProfile{Applicant: *applicant}

	if err := s.db.Where("code = ?", code).Order("created_at asc").Find(&profile.Dependents).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	var classification models.Classification
	if err := s.db.Where("code = ?", code).First(&classification).Error; err == nil {
		profile.Classification = &classification
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err)
	}

	var needs models.Needs
	if err := s.db.Where("code = ?", code).First(&needs).Error; err == nil {
		profile.Needs = &needs
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err)
	}

	var contact models.EmergencyContact
	if err := s.db.Where("code = ?", code).First(&contact).Error; err == nil {
		profile.EmergencyContact = &contact
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err)
	}

	return profile, nil
}
