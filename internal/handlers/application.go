// internal/handlers/application.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benepisyo/benefits-backend/internal/i18n"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// ApplicationHandler exposes the public submission endpoint and the
// applicant-facing reads.
type ApplicationHandler struct {
	submissions   *services.SubmissionService
	statuses      *services.StatusService
	documents     *services.DocumentService
	notifications *services.NotificationService
}

func NewApplicationHandler(
	submissions *services.SubmissionService,
	statuses *services.StatusService,
	documents *services.DocumentService,
	notifications *services.NotificationService,
) *ApplicationHandler {
	return &ApplicationHandler{
		submissions:   submissions,
		statuses:      statuses,
		documents:     documents,
		notifications: notifications,
	}
}

// Submit accepts the six-step registration form.
// POST /api/v1/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req services.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	result, err := h.submissions.Submit(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.CreatedResponse(c, gin.H{
		"code":    result.Code,
		"message": i18n.T(lang, i18n.KeyApplicationSubmitted),
	})
}

// GetStatus returns the lifecycle status for a code.
// GET /api/v1/applications/:code/status
func (h *ApplicationHandler) GetStatus(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	status, err := h.statuses.StatusOf(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	history, err := h.statuses.History(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"code":           code,
		"status":         status,
		"status_history": history,
	})
}

// GetProfile returns the full multi-table projection for a code.
// GET /api/v1/applications/:code
func (h *ApplicationHandler) GetProfile(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	profile, err := h.submissions.GetProfile(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// GetDocuments returns the document checklist for a code.
// GET /api/v1/applications/:code/documents
func (h *ApplicationHandler) GetDocuments(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	entries, err := h.documents.List(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, entries)
}

// RequestRenewal lets a verified applicant ask for benefit renewal.
// POST /api/v1/applications/:code/renewal
func (h *ApplicationHandler) RequestRenewal(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	result, err := h.statuses.Transition(code, services.EventRequestRenewal, "")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

func accountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := utils.GetAccountIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
