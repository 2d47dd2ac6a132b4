// internal/services/submission_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

type SubmissionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *SubmissionService
}

func (suite *SubmissionTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewSubmissionService(suite.db, testPolicy())
}

func (suite *SubmissionTestSuite) TestSubmitWritesAllTables() {
	result, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)
	suite.True(utils.ValidApplicantCode(result.Code))

	var applicant models.Applicant
	suite.Require().NoError(suite.db.Where("code = ?", result.Code).First(&applicant).Error)
	suite.Equal("maria@example.com", applicant.Email)
	suite.Equal("Maria", applicant.FirstName)

	var dependents int64
	suite.db.Model(&models.Dependent{}).Where("code = ?", result.Code).Count(&dependents)
	suite.Equal(int64(2), dependents)

	var classification models.Classification
	suite.Require().NoError(suite.db.Where("code = ?", result.Code).First(&classification).Error)
	suite.Equal("solo_parent", classification.Value)

	var needs models.Needs
	suite.Require().NoError(suite.db.Where("code = ?", result.Code).First(&needs).Error)

	var contact models.EmergencyContact
	suite.Require().NoError(suite.db.Where("code = ?", result.Code).First(&contact).Error)
	suite.Equal("Pedro Santos", contact.Name)
}

func (suite *SubmissionTestSuite) TestSubmitCreatesPendingAccountWithBirthDateCredential() {
	result, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)

	var account models.Account
	suite.Require().NoError(suite.db.Where("email = ?", "maria@example.com").First(&account).Error)

	suite.Equal(models.AccountStatusPending, account.Status)
	suite.Equal(models.AccountRoleApplicant, account.Role)
	suite.Require().NotNil(account.Code)
	suite.Equal(result.Code, *account.Code)

	// The birth date is the initial credential, stored only as a hash.
	suite.NoError(account.CheckPassword("1992-03-14"))
	suite.Error(account.CheckPassword("wrong-password"))
	suite.NotEqual("1992-03-14", account.PasswordHash)
}

func (suite *SubmissionTestSuite) TestSubmitAttachesCodeToExistingAccount() {
	existing := &models.Account{
		Email:  "maria@example.com",
		Name:   "Maria Santos",
		Status: models.AccountStatusCreated,
		Role:   models.AccountRoleApplicant,
	}
	suite.Require().NoError(existing.SetPassword("chosen-password"))
	suite.Require().NoError(suite.db.Create(existing).Error)

	result, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)

	var account models.Account
	suite.Require().NoError(suite.db.Where("email = ?", "maria@example.com").First(&account).Error)
	suite.Equal(existing.ID, account.ID, "no second account row is created")
	suite.Require().NotNil(account.Code)
	suite.Equal(result.Code, *account.Code)
	suite.Equal(models.AccountStatusPending, account.Status)

	// An attached account keeps the password it already had.
	suite.NoError(account.CheckPassword("chosen-password"))
}

func (suite *SubmissionTestSuite) TestSubmitDuplicateEmailReturnsExistingCode() {
	first, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)

	_, err = suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().Error(err)

	var dup *DuplicateEmailError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal("maria@example.com", dup.Email)
	suite.Equal(first.Code, dup.Code)

	var count int64
	suite.db.Model(&models.Applicant{}).Count(&count)
	suite.Equal(int64(1), count, "the duplicate submission writes nothing")
}

func (suite *SubmissionTestSuite) TestSubmitNormalizesEmailCase() {
	_, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)

	req := sampleSubmission("  Maria@Example.COM ")
	_, err = suite.service.Submit(req)

	var dup *DuplicateEmailError
	suite.Require().ErrorAs(err, &dup)
}

func (suite *SubmissionTestSuite) TestSubmitValidationRejectsBadInput() {
	req := sampleSubmission("maria@example.com")
	req.Identity.BirthDate = "14-03-1992"

	_, err := suite.service.Submit(req)
	suite.Error(err)

	var count int64
	suite.db.Model(&models.Applicant{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *SubmissionTestSuite) TestSubmitRollsBackOnMidTransactionFailure() {
	// Breaking a downstream table forces a failure after the identity row
	// was written inside the transaction.
	suite.Require().NoError(suite.db.Exec("DROP TABLE needs").Error)

	_, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().Error(err)

	var applicants, dependents, accounts int64
	suite.db.Model(&models.Applicant{}).Count(&applicants)
	suite.db.Model(&models.Dependent{}).Count(&dependents)
	suite.db.Model(&models.Account{}).Count(&accounts)
	suite.Equal(int64(0), applicants, "the identity row must not survive the rollback")
	suite.Equal(int64(0), dependents)
	suite.Equal(int64(0), accounts)
}

func (suite *SubmissionTestSuite) TestSubmitWithoutOptionalSections() {
	req := sampleSubmission("maria@example.com")
	req.Dependents = nil
	req.EmergencyContact = nil
	req.Needs = ""

	result, err := suite.service.Submit(req)
	suite.Require().NoError(err)

	var dependents int64
	suite.db.Model(&models.Dependent{}).Where("code = ?", result.Code).Count(&dependents)
	suite.Equal(int64(0), dependents)

	var contacts int64
	suite.db.Model(&models.EmergencyContact{}).Where("code = ?", result.Code).Count(&contacts)
	suite.Equal(int64(0), contacts)
}

func (suite *SubmissionTestSuite) TestGetProfile() {
	result, err := suite.service.Submit(sampleSubmission("maria@example.com"))
	suite.Require().NoError(err)

	profile, err := suite.service.GetProfile(result.Code)
	suite.Require().NoError(err)
	suite.Equal("Maria", profile.Applicant.FirstName)
	suite.Len(profile.Dependents, 2)
	suite.Require().NotNil(profile.Classification)
	suite.Equal("solo_parent", profile.Classification.Value)
	suite.NotNil(profile.Needs)
	suite.NotNil(profile.EmergencyContact)

	_, err = suite.service.GetProfile("2026_01_000000")
	suite.ErrorIs(err, ErrUnknownApplicant)
}

func TestSubmissionTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionTestSuite))
}
