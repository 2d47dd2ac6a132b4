// internal/services/auth_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountTerminated  = errors.New("account has been terminated")
)

// AuthService handles login and token issuance. The first successful login
// of a freshly created account moves it to verified through the same
// transition engine the admin endpoints use.
type AuthService struct {
	db       *gorm.DB
	jwtCfg   config.JWTConfig
	statuses *StatusService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	Account      *models.Account `json:"account"`
}

func NewAuthService(db *gorm.DB, jwtCfg config.JWTConfig, statuses *StatusService) *AuthService {
	return &AuthService{db: db, jwtCfg: jwtCfg, statuses: statuses}
}

// Login verifies the credential and issues a token pair. Terminated
// accounts are locked out until an administrator reactivates them.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var account models.Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrapStoreError(err)
	}

	if err := account.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if account.Status == models.AccountStatusTerminated {
		return nil, ErrAccountTerminated
	}

	// First login of a created account verifies it silently.
	if account.Status == models.AccountStatusCreated {
		result, err := s.statuses.TransitionByAccountID(account.ID, EventFirstLogin, "")
		if err != nil {
			return nil, err
		}
		account.Status = result.Status
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := s.db.Model(&account).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record last login time")
	}

	token, err := utils.GenerateJWT(account.ID, account.Email, string(account.Role), string(account.Status), s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateRefreshToken(account.ID, s.jwtCfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, RefreshToken: refreshToken, Account: &account}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (*LoginResult, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	accountID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	if account.Status == models.AccountStatusTerminated {
		return nil, ErrAccountTerminated
	}

	token, err := utils.GenerateJWT(account.ID, account.Email, string(account.Role), string(account.Status), s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	newRefresh, err := utils.GenerateRefreshToken(account.ID, s.jwtCfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, RefreshToken: newRefresh, Account: account}, nil
}

// GetAccount loads an account by id.
func (s *AuthService) GetAccount(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, wrapStoreError(err)
	}
	return &account, nil
}

// ChangePassword replaces the credential after verifying the current one.
func (s *AuthService) ChangePassword(id uuid.UUID, current, next string) error {
	account, err := s.GetAccount(id)
	if err != nil {
		return err
	}

	if err := account.CheckPassword(current); err != nil {
		return ErrInvalidCredentials
	}

	if err := account.SetPassword(next); err != nil {
		return err
	}

	if err := s.db.Model(account).Update("password_hash", account.PasswordHash).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}
