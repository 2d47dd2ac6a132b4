// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// AdminHandler serves the reviewer console: dashboard, worklist, the
// lifecycle transition endpoints, and document review.
type AdminHandler struct {
	admin     *services.AdminService
	statuses  *services.StatusService
	documents *services.DocumentService
}

func NewAdminHandler(admin *services.AdminService, statuses *services.StatusService, documents *services.DocumentService) *AdminHandler {
	return &AdminHandler{admin: admin, statuses: statuses, documents: documents}
}

// Dashboard returns the summary counts.
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// ListApplicants returns the filtered worklist.
// GET /api/v1/admin/applicants
func (h *AdminHandler) ListApplicants(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.ApplicantFilter{
		Status:   models.AccountStatus(c.Query("status")),
		Barangay: c.Query("barangay"),
	}
	if raw := c.Query("beneficiary"); raw != "" {
		v := raw == "true"
		filter.Beneficiary = &v
	}
	if raw := c.Query("indigent"); raw != "" {
		v := raw == "true"
		filter.Indigent = &v
	}

	result, err := h.admin.ListApplicants(filter, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// AuditLogs returns the newest audit entries.
// GET /api/v1/admin/audit-logs
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	result, err := h.admin.ListAuditLogs(utils.GetPaginationParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.PaginatedResponse(c, *result)
}

type transitionRequest struct {
	Remarks string `json:"remarks,omitempty"`
}

// Lifecycle transition endpoints. Each binds one event; the engine rejects
// pairs that are not in the transition table.

// POST /api/v1/admin/applicants/:code/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	h.transition(c, services.EventApprove, false)
}

// POST /api/v1/admin/applicants/:code/decline
func (h *AdminHandler) Decline(c *gin.Context) {
	h.transition(c, services.EventDecline, true)
}

// POST /api/v1/admin/applicants/:code/mark-renewal
func (h *AdminHandler) MarkRenewal(c *gin.Context) {
	h.transition(c, services.EventRequestRenewal, false)
}

// POST /api/v1/admin/applicants/:code/approve-renewal
func (h *AdminHandler) ApproveRenewal(c *gin.Context) {
	h.transition(c, services.EventApproveRenewal, false)
}

// POST /api/v1/admin/applicants/:code/decline-renewal
func (h *AdminHandler) DeclineRenewal(c *gin.Context) {
	h.transition(c, services.EventDecline, true)
}

// POST /api/v1/admin/applicants/:code/remark
func (h *AdminHandler) Remark(c *gin.Context) {
	h.transition(c, services.EventRemark, true)
}

// POST /api/v1/admin/applicants/:code/resolve-remarks
func (h *AdminHandler) ResolveRemarks(c *gin.Context) {
	h.transition(c, services.EventResolveRemarks, false)
}

// POST /api/v1/admin/applicants/:code/terminate
func (h *AdminHandler) Terminate(c *gin.Context) {
	h.transition(c, services.EventTerminate, true)
}

// POST /api/v1/admin/applicants/:code/reactivate
func (h *AdminHandler) Reactivate(c *gin.Context) {
	h.transition(c, services.EventReactivate, false)
}

func (h *AdminHandler) transition(c *gin.Context, event services.StatusEvent, remarksRequired bool) {
	code := c.Param("code")
	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "", err.Error())
			return
		}
	}
	if remarksRequired && req.Remarks == "" {
		utils.BadRequestResponse(c, "", "remarks are required for this action")
		return
	}

	result, err := h.statuses.Transition(code, event, req.Remarks)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.audit(c, string(event), code, models.JSONB{"status": string(result.Status)})
	utils.SuccessResponse(c, result)
}

// RejectDocument flags an uploaded document with a reviewer reason.
// POST /api/v1/admin/applicants/:code/documents/:kind/reject
func (h *AdminHandler) RejectDocument(c *gin.Context) {
	code := c.Param("code")
	kind := models.DocumentKind(c.Param("kind"))

	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := h.documents.Reject(code, kind, req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}

	h.audit(c, "document_rejected", code, models.JSONB{"kind": string(kind), "reason": req.Reason})
	utils.SuccessResponse(c, gin.H{"rejected": true})
}

func (h *AdminHandler) audit(c *gin.Context, action, resourceID string, values models.JSONB) {
	var actor *uuid.UUID
	if id, ok := accountIDFromContext(c); ok {
		actor = &id
	}

	err := h.admin.RecordAudit(actor, action, "applicant", resourceID, values, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		logrus.WithError(err).WithField("action", action).Warn("Failed to record audit entry")
	}
}
