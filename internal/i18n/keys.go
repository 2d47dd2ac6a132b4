// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthAccountTerminated  = "auth.account_terminated"

	// Applications
	KeyApplicationSubmitted      = "application.submitted"
	KeyApplicationDuplicateEmail = "application.duplicate_email"
	KeyApplicationNotFound       = "application.not_found"

	// Documents
	KeyDocumentUploaded    = "document.uploaded"
	KeyDocumentDeleted     = "document.deleted"
	KeyDocumentUnknownKind = "document.unknown_kind"
	KeyDocumentNotFound    = "document.not_found"

	// Status transitions
	KeyStatusAccepted          = "status.accepted"
	KeyStatusDeclined          = "status.declined"
	KeyStatusFlagged           = "status.flagged"
	KeyStatusTerminated        = "status.terminated"
	KeyStatusReactivated       = "status.reactivated"
	KeyStatusRenewed           = "status.renewed"
	KeyStatusInvalidTransition = "status.invalid_transition"

	// Notifications
	KeyNotificationMarkedRead = "notification.marked_read"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Contention
	KeyBusyTryAgain = "busy.try_again"
)
