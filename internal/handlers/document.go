// internal/handlers/document.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/benepisyo/benefits-backend/internal/i18n"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// DocumentHandler wires multipart uploads through S3 into the per-kind
// document tables.
type DocumentHandler struct {
	documents *services.DocumentService
	storage   *services.StorageService
}

func NewDocumentHandler(documents *services.DocumentService, storage *services.StorageService) *DocumentHandler {
	return &DocumentHandler{documents: documents, storage: storage}
}

// Upload stores the file and upserts the row for (code, kind).
// POST /api/v1/applications/:code/documents/:kind
func (h *DocumentHandler) Upload(c *gin.Context) {
	code := c.Param("code")
	kind := models.DocumentKind(c.Param("kind"))
	lang := utils.GetLangFromContext(c)

	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}
	if _, ok := models.ResolveDocumentKind(kind); !ok {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDocumentUnknownKind), nil)
		return
	}

	// Storage is nil when S3 was unreachable at startup.
	if h.storage == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE",
			"document storage is not available", nil)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "", "missing file field")
		return
	}

	key, err := h.storage.UploadDocument(code, kind, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.documents.Upsert(&services.DocumentUpsertRequest{
		Code:           code,
		Kind:           kind,
		FileName:       key,
		DisplayName:    header.Filename,
		Status:         models.DocumentStatusSubmitted,
		ClearRejection: c.Query("clear_rejection") == "true",
	})
	if err != nil {
		// The row is the source of truth; clean up the orphaned object.
		if delErr := h.storage.DeleteObject(key); delErr != nil {
			logrus.WithError(delErr).WithField("key", key).Warn("Failed to clean up orphaned upload")
		}
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"action":  result.Action,
		"id":      result.ID,
		"kind":    kind,
		"url":     h.storage.FileURL(key),
		"message": i18n.T(lang, i18n.KeyDocumentUploaded),
	})
}

// Delete removes the stored row for (code, kind). Idempotent.
// DELETE /api/v1/applications/:code/documents/:kind
func (h *DocumentHandler) Delete(c *gin.Context) {
	code := c.Param("code")
	kind := models.DocumentKind(c.Param("kind"))
	lang := utils.GetLangFromContext(c)

	if !utils.ValidApplicantCode(code) {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	deleted, err := h.documents.Delete(code, kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": deleted,
		"message": i18n.T(lang, i18n.KeyDocumentDeleted),
	})
}
