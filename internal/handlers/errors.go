// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/benepisyo/benefits-backend/internal/i18n"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Raw persistence causes are logged, never echoed to the client.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
		return
	}

	var dup *services.DuplicateEmailError
	if errors.As(err, &dup) {
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyApplicationDuplicateEmail), gin.H{
			"email": dup.Email,
			"code":  dup.Code,
		})
		return
	}

	var constraint *services.ConstraintViolationError
	if errors.As(err, &constraint) {
		utils.ConflictResponse(c, constraint.Error(), gin.H{"field": constraint.Field})
		return
	}

	switch {
	case services.IsBusy(err):
		utils.BusyResponse(c)
	case errors.Is(err, services.ErrUnknownApplicant):
		utils.NotFoundResponse(c, "application")
	case errors.Is(err, services.ErrAccountNotFound):
		utils.NotFoundResponse(c, "application")
	case errors.Is(err, services.ErrUnknownDocumentKind):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDocumentUnknownKind), nil)
	case errors.Is(err, services.ErrUnknownNotificationType):
		utils.BadRequestResponse(c, "", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyStatusInvalidTransition), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrAccountTerminated):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountTerminated))
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}
