// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benepisyo/benefits-backend/internal/i18n"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the merged notification feed, newest first.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	feed, err := h.notifications.List(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, feed, gin.H{"unread": unread})
}

// MarkRead flips the read flag on one entry.
// PATCH /api/v1/notifications/:type/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", "invalid notification id")
		return
	}

	kind := models.NotificationType(c.Param("type"))
	if err := h.notifications.MarkRead(accountID, kind, entryID); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyNotificationMarkedRead)})
}

// MarkAllRead flips every unread entry for the account.
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.notifications.MarkAllRead(accountID); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyNotificationMarkedRead)})
}
