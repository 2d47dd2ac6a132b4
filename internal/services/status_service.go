// internal/services/status_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/database"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/retry"
)

// StatusEvent names a transition request. The reachable target for each
// (current status, event) pair is fixed by the transition table below;
// anything not in the table is rejected before any row is written.
type StatusEvent string

const (
	EventFirstLogin     StatusEvent = "first_login"
	EventApprove        StatusEvent = "approve"
	EventDecline        StatusEvent = "decline"
	EventRequestRenewal StatusEvent = "request_renewal"
	EventApproveRenewal StatusEvent = "approve_renewal"
	EventRemark         StatusEvent = "remark"
	EventResolveRemarks StatusEvent = "resolve_remarks"
	EventTerminate      StatusEvent = "terminate"
	EventReactivate     StatusEvent = "reactivate"
)

type transitionKey struct {
	From  models.AccountStatus
	Event StatusEvent
}

var transitions = map[transitionKey]models.AccountStatus{
	{models.AccountStatusCreated, EventFirstLogin}:            models.AccountStatusVerified,
	{models.AccountStatusPending, EventApprove}:               models.AccountStatusVerified,
	{models.AccountStatusPending, EventDecline}:               models.AccountStatusDeclined,
	{models.AccountStatusVerified, EventRequestRenewal}:       models.AccountStatusRenewal,
	{models.AccountStatusRenewal, EventApproveRenewal}:        models.AccountStatusVerified,
	{models.AccountStatusRenewal, EventDecline}:               models.AccountStatusDeclined,
	{models.AccountStatusVerified, EventRemark}:               models.AccountStatusPendingRemarks,
	{models.AccountStatusPendingRemarks, EventResolveRemarks}: models.AccountStatusVerified,
	{models.AccountStatusPendingRemarks, EventTerminate}:      models.AccountStatusTerminated,
	{models.AccountStatusTerminated, EventReactivate}:         models.AccountStatusVerified,
}

// Fixed notice text written to the event logs. Declines, remarks, and
// terminations carry the reviewer's remarks instead.
const (
	messageAccepted       = "Your application has been accepted."
	messageRenewalOK      = "Your renewal has been accepted."
	messageRemarksCleared = "Your submitted remarks have been resolved."
	messageReactivated    = "Your account has been reactivated."
)

// Notifier delivers out-of-band notices. Delivery failure never rolls back
// a committed transition; it only clears the email_sent flag.
type Notifier interface {
	SendStatusNotice(account *models.Account, event StatusEvent, message string) error
}

// StatusService applies lifecycle transitions under a row lock so two
// concurrent reviewers cannot both move the same account.
type StatusService struct {
	db       *gorm.DB
	policy   retry.Policy
	notifier Notifier
}

type TransitionResult struct {
	Status    models.AccountStatus `json:"status"`
	EmailSent bool                 `json:"email_sent"`
}

func NewStatusService(db *gorm.DB, policy retry.Policy, notifier Notifier) *StatusService {
	return &StatusService{db: db, policy: policy, notifier: notifier}
}

// Transition moves the account attached to an applicant code through one
// lifecycle event.
func (s *StatusService) Transition(code string, event StatusEvent, remarks string) (*TransitionResult, error) {
	return s.run(event, remarks, func(tx *gorm.DB) (*models.Account, error) {
		var account models.Account
		err := database.LockForUpdate(tx).Where("code = ?", code).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		} else if err != nil {
			return nil, wrapStoreError(err)
		}
		return &account, nil
	})
}

// TransitionByAccountID is the same engine keyed by account id. The login
// path uses it for the silent created-to-verified move.
func (s *StatusService) TransitionByAccountID(id uuid.UUID, event StatusEvent, remarks string) (*TransitionResult, error) {
	return s.run(event, remarks, func(tx *gorm.DB) (*models.Account, error) {
		var account models.Account
		err := database.LockForUpdate(tx).Where("id = ?", id).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		} else if err != nil {
			return nil, wrapStoreError(err)
		}
		return &account, nil
	})
}

func (s *StatusService) run(event StatusEvent, remarks string, load func(*gorm.DB) (*models.Account, error)) (*TransitionResult, error) {
	var (
		result  TransitionResult
		notice  string
		account models.Account
	)

	err := s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			loaded, err := load(tx)
			if err != nil {
				return err
			}
			account = *loaded

			target, ok := transitions[transitionKey{account.Status, event}]
			if !ok {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, account.Status, event)
			}

			account.Status = target
			if err := tx.Save(&account).Error; err != nil {
				return wrapStoreError(err)
			}

			notice, err = s.appendLog(tx, &account, event, remarks)
			if err != nil {
				return err
			}

			result.Status = target
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Delivery happens after commit. The transition stands whether or not
	// the notice goes out.
	if notice != "" && s.notifier != nil {
		if err := s.notifier.SendStatusNotice(&account, event, notice); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": account.ID,
				"event":      event,
			}).Warn("Failed to deliver status notice email")
		} else {
			result.EmailSent = true
		}
	}

	return &result, nil
}

// appendLog writes the event-log row for the transition and returns the
// notice text, or "" for silent transitions. An identical unread entry
// already in the ledger suppresses the append, so repeated reviewer clicks
// do not stack duplicate notifications.
func (s *StatusService) appendLog(tx *gorm.DB, account *models.Account, event StatusEvent, remarks string) (string, error) {
	switch event {
	case EventFirstLogin, EventRequestRenewal:
		return "", nil

	case EventApprove, EventApproveRenewal, EventResolveRemarks, EventReactivate:
		message := messageAccepted
		switch event {
		case EventApproveRenewal:
			message = messageRenewalOK
		case EventResolveRemarks:
			message = messageRemarksCleared
		case EventReactivate:
			message = messageReactivated
		}

		var count int64
		err := tx.Model(&models.AcceptedLog{}).
			Where("account_id = ? AND message = ? AND read = ?", account.ID, message, false).
			Count(&count).Error
		if err != nil {
			return "", wrapStoreError(err)
		}
		if count == 0 {
			entry := &models.AcceptedLog{AccountID: account.ID, Message: message}
			if err := tx.Create(entry).Error; err != nil {
				return "", wrapStoreError(err)
			}
		}
		return message, nil

	case EventDecline:
		return s.appendRemarksLog(tx, &models.DeclinedLog{AccountID: account.ID, Remarks: remarks}, account.ID, remarks, "declined_logs")

	case EventTerminate:
		return s.appendRemarksLog(tx, &models.TerminatedLog{AccountID: account.ID, Remarks: remarks}, account.ID, remarks, "terminated_logs")

	case EventRemark:
		return s.appendRemarksLog(tx, &models.RemarkedLog{AccountID: account.ID, Remarks: remarks}, account.ID, remarks, "remarked_logs")
	}

	return "", nil
}

func (s *StatusService) appendRemarksLog(tx *gorm.DB, entry interface{}, accountID uuid.UUID, remarks, table string) (string, error) {
	var count int64
	err := tx.Table(table).
		Where("account_id = ? AND remarks = ? AND read = ?", accountID, remarks, false).
		Count(&count).Error
	if err != nil {
		return "", wrapStoreError(err)
	}
	if count == 0 {
		if err := tx.Create(entry).Error; err != nil {
			return "", wrapStoreError(err)
		}
	}
	return remarks, nil
}

// StatusHistoryEntry is one recorded lifecycle change, reconstructed from
// the event logs.
type StatusHistoryEntry struct {
	Status  models.AccountStatus `json:"status"`
	Remarks string               `json:"remarks,omitempty"`
	At      time.Time            `json:"at"`
}

// History rebuilds the status trail for a code from the four event logs,
// oldest first. Silent transitions leave no trace and do not appear.
func (s *StatusService) History(code string) ([]StatusHistoryEntry, error) {
	var account models.Account
	err := s.db.Where("code = ?", code).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, wrapStoreError(err)
	}

	var history []StatusHistoryEntry

	var accepted []models.AcceptedLog
	if err := s.db.Where("account_id = ?", account.ID).Find(&accepted).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range accepted {
		history = append(history, StatusHistoryEntry{Status: models.AccountStatusVerified, At: entry.CreatedAt})
	}

	var declined []models.DeclinedLog
	if err := s.db.Where("account_id = ?", account.ID).Find(&declined).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range declined {
		history = append(history, StatusHistoryEntry{Status: models.AccountStatusDeclined, Remarks: entry.Remarks, At: entry.CreatedAt})
	}

	var terminated []models.TerminatedLog
	if err := s.db.Where("account_id = ?", account.ID).Find(&terminated).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range terminated {
		history = append(history, StatusHistoryEntry{Status: models.AccountStatusTerminated, Remarks: entry.Remarks, At: entry.CreatedAt})
	}

	var remarked []models.RemarkedLog
	if err := s.db.Where("account_id = ?", account.ID).Find(&remarked).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range remarked {
		history = append(history, StatusHistoryEntry{Status: models.AccountStatusPendingRemarks, Remarks: entry.Remarks, At: entry.CreatedAt})
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].At.Before(history[j].At)
	})

	return history, nil
}

// StatusOf returns the current lifecycle status for an applicant code.
func (s *StatusService) StatusOf(code string) (models.AccountStatus, error) {
	var account models.Account
	err := s.db.Where("code = ?", code).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAccountNotFound
	} else if err != nil {
		return "", wrapStoreError(err)
	}
	return account.Status, nil
}
