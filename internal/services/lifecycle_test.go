// internal/services/lifecycle_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// TestApplicantLifecycleEndToEnd walks one applicant through the whole
// pipeline: submission, document upload, approval, login with the birth
// date credential, and the notification feed.
func TestApplicantLifecycleEndToEnd(t *testing.T) {
	db := newTestDB(t)
	policy := testPolicy()

	notifier := &captureNotifier{}
	submissions := NewSubmissionService(db, policy)
	documents := NewDocumentService(db, policy)
	statuses := NewStatusService(db, policy, notifier)
	notifications := NewNotificationService(db, policy)
	auth := NewAuthService(db, config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, RefreshTokenTTL: 24}, statuses)

	// Submission issues a well-formed code and a pending account.
	result, err := submissions.Submit(sampleSubmission("lifecycle@example.com"))
	require.NoError(t, err)
	require.True(t, utils.ValidApplicantCode(result.Code))

	status, err := statuses.StatusOf(result.Code)
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusPending, status)

	// Documents arrive while the application is under review.
	upsert, err := documents.Upsert(&DocumentUpsertRequest{
		Code:     result.Code,
		Kind:     models.DocumentKindPrimaryID,
		FileName: "documents/" + result.Code + "/primary_id/id.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, DocumentActionInserted, upsert.Action)

	// Approval verifies the account and writes the acceptance notice.
	transition, err := statuses.Transition(result.Code, EventApprove, "")
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusVerified, transition.Status)
	require.True(t, transition.EmailSent)

	// The birth date from the form is the initial login credential.
	login, err := auth.Login(&LoginRequest{
		Email:    "lifecycle@example.com",
		Password: "1992-03-14",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, models.AccountStatusVerified, login.Account.Status)

	// The acceptance shows up unread, then the applicant clears the feed.
	feed, err := notifications.List(login.Account.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, models.NotificationTypeAccepted, feed[0].Type)
	require.Equal(t, "Your application has been accepted.", feed[0].Message)
	require.False(t, feed[0].Read)

	require.NoError(t, notifications.MarkAllRead(login.Account.ID))
	unread, err := notifications.UnreadCount(login.Account.ID)
	require.NoError(t, err)
	require.Zero(t, unread)

	feed, err = notifications.List(login.Account.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.True(t, feed[0].Read)
}
