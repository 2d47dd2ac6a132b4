// internal/services/notification_service.go
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/database"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/retry"
)

// NotificationService projects the four event logs into one feed and
// tracks which entries the applicant has seen.
type NotificationService struct {
	db     *gorm.DB
	policy retry.Policy
}

// Notification is one feed entry, regardless of which log it came from.
type Notification struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NewNotificationService(db *gorm.DB, policy retry.Policy) *NotificationService {
	return &NotificationService{db: db, policy: policy}
}

// List returns the merged feed for an account, newest first.
func (s *NotificationService) List(accountID uuid.UUID) ([]Notification, error) {
	var feed []Notification

	var accepted []models.AcceptedLog
	if err := s.db.Where("account_id = ?", accountID).Find(&accepted).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range accepted {
		feed = append(feed, Notification{
			ID:        entry.ID,
			Type:      models.NotificationTypeAccepted,
			Message:   entry.Message,
			Read:      entry.Read,
			CreatedAt: entry.CreatedAt,
		})
	}

	var declined []models.DeclinedLog
	if err := s.db.Where("account_id = ?", accountID).Find(&declined).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range declined {
		feed = append(feed, Notification{
			ID:        entry.ID,
			Type:      models.NotificationTypeDeclined,
			Message:   entry.Remarks,
			Read:      entry.Read,
			CreatedAt: entry.CreatedAt,
		})
	}

	var terminated []models.TerminatedLog
	if err := s.db.Where("account_id = ?", accountID).Find(&terminated).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range terminated {
		feed = append(feed, Notification{
			ID:        entry.ID,
			Type:      models.NotificationTypeTerminated,
			Message:   entry.Remarks,
			Read:      entry.Read,
			CreatedAt: entry.CreatedAt,
		})
	}

	var remarked []models.RemarkedLog
	if err := s.db.Where("account_id = ?", accountID).Find(&remarked).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, entry := range remarked {
		feed = append(feed, Notification{
			ID:        entry.ID,
			Type:      models.NotificationTypeRemarked,
			Message:   entry.Remarks,
			Read:      entry.Read,
			CreatedAt: entry.CreatedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	return feed, nil
}

// UnreadCount is the badge number: unread entries across all four logs.
func (s *NotificationService) UnreadCount(accountID uuid.UUID) (int64, error) {
	var total int64
	for _, table := range []string{"accepted_logs", "declined_logs", "terminated_logs", "remarked_logs"} {
		var count int64
		err := s.db.Table(table).
			Where("account_id = ? AND read = ? AND deleted_at IS NULL", accountID, false).
			Count(&count).Error
		if err != nil {
			return 0, wrapStoreError(err)
		}
		total += count
	}
	return total, nil
}

// MarkRead flips the read flag on one entry. The entry must belong to the
// account; marking an already-read entry is a no-op.
func (s *NotificationService) MarkRead(accountID uuid.UUID, kind models.NotificationType, id uuid.UUID) error {
	table, ok := logTableFor(kind)
	if !ok {
		return ErrUnknownNotificationType
	}

	return s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			var ids []uuid.UUID
			err := database.LockForUpdate(tx).Table(table).
				Where("id = ? AND account_id = ? AND deleted_at IS NULL", id, accountID).
				Pluck("id", &ids).Error
			if err != nil {
				return wrapStoreError(err)
			}
			if len(ids) == 0 {
				return nil
			}

			res := tx.Table(table).
				Where("id = ? AND account_id = ?", id, accountID).
				Update("read", true)
			if res.Error != nil {
				return wrapStoreError(res.Error)
			}
			return nil
		})
	})
}

// MarkAllRead flips every unread entry for the account in one transaction.
func (s *NotificationService) MarkAllRead(accountID uuid.UUID) error {
	return s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			for _, table := range []string{"accepted_logs", "declined_logs", "terminated_logs", "remarked_logs"} {
				var ids []uuid.UUID
				err := database.LockForUpdate(tx).Table(table).
					Where("account_id = ? AND read = ? AND deleted_at IS NULL", accountID, false).
					Pluck("id", &ids).Error
				if err != nil {
					return wrapStoreError(err)
				}
				if len(ids) == 0 {
					continue
				}

				res := tx.Table(table).
					Where("id IN ?", ids).
					Update("read", true)
				if res.Error != nil {
					return wrapStoreError(res.Error)
				}
			}
			return nil
		})
	})
}

func logTableFor(kind models.NotificationType) (string, bool) {
	switch kind {
	case models.NotificationTypeAccepted:
		return "accepted_logs", true
	case models.NotificationTypeDeclined:
		return "declined_logs", true
	case models.NotificationTypeTerminated:
		return "terminated_logs", true
	case models.NotificationTypeRemarked:
		return "remarked_logs", true
	}
	return "", false
}
