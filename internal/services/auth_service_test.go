// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
)

type AuthTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	statuses := NewStatusService(suite.db, testPolicy(), nil)
	suite.service = NewAuthService(suite.db, config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  1,
		RefreshTokenTTL: 24,
	}, statuses)
}

func (suite *AuthTestSuite) TestLoginWithBirthDateCredential() {
	seedAccount(suite.T(), suite.db, "2026_08_400001", models.AccountStatusPending)

	result, err := suite.service.Login(&LoginRequest{
		Email:    "2026_08_400001@example.com",
		Password: "1992-03-14",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(result.Token)
	suite.NotEmpty(result.RefreshToken)
	suite.NotNil(result.Account.LastLoginAt)
}

func (suite *AuthTestSuite) TestLoginRejectsWrongPassword() {
	seedAccount(suite.T(), suite.db, "2026_08_400002", models.AccountStatusPending)

	_, err := suite.service.Login(&LoginRequest{
		Email:    "2026_08_400002@example.com",
		Password: "1999-12-31",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthTestSuite) TestLoginRejectsUnknownEmail() {
	_, err := suite.service.Login(&LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthTestSuite) TestLoginLocksOutTerminatedAccount() {
	seedAccount(suite.T(), suite.db, "2026_08_400003", models.AccountStatusTerminated)

	_, err := suite.service.Login(&LoginRequest{
		Email:    "2026_08_400003@example.com",
		Password: "1992-03-14",
	})
	suite.ErrorIs(err, ErrAccountTerminated)
}

func (suite *AuthTestSuite) TestFirstLoginVerifiesCreatedAccount() {
	account := seedAccount(suite.T(), suite.db, "2026_08_400004", models.AccountStatusCreated)

	result, err := suite.service.Login(&LoginRequest{
		Email:    "2026_08_400004@example.com",
		Password: "1992-03-14",
	})
	suite.Require().NoError(err)
	suite.Equal(models.AccountStatusVerified, result.Account.Status)

	// Silent transition: the ledger stays empty.
	var count int64
	suite.db.Model(&models.AcceptedLog{}).Where("account_id = ?", account.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *AuthTestSuite) TestRefreshIssuesNewPair() {
	seedAccount(suite.T(), suite.db, "2026_08_400005", models.AccountStatusVerified)

	login, err := suite.service.Login(&LoginRequest{
		Email:    "2026_08_400005@example.com",
		Password: "1992-03-14",
	})
	suite.Require().NoError(err)

	refreshed, err := suite.service.Refresh(login.RefreshToken)
	suite.Require().NoError(err)
	suite.NotEmpty(refreshed.Token)

	_, err = suite.service.Refresh("not-a-token")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthTestSuite) TestChangePassword() {
	account := seedAccount(suite.T(), suite.db, "2026_08_400006", models.AccountStatusVerified)

	err := suite.service.ChangePassword(account.ID, "wrong", "new-secret-123")
	suite.ErrorIs(err, ErrInvalidCredentials)

	suite.Require().NoError(suite.service.ChangePassword(account.ID, "1992-03-14", "new-secret-123"))

	_, err = suite.service.Login(&LoginRequest{
		Email:    "2026_08_400006@example.com",
		Password: "new-secret-123",
	})
	suite.NoError(err)
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
