// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

type AdminTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AdminService
}

func (suite *AdminTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewAdminService(suite.db)

	submissions := NewSubmissionService(suite.db, testPolicy())
	statuses := NewStatusService(suite.db, testPolicy(), nil)

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		req := sampleSubmission(email)
		req.Identity.Barangay = "San Isidro"
		req.Identity.IsIndigent = i == 0
		if i == 2 {
			req.Identity.Barangay = "Poblacion"
			req.Identity.LastName = "Reyes"
		}
		result, err := submissions.Submit(req)
		suite.Require().NoError(err)

		if i == 0 {
			_, err = statuses.Transition(result.Code, EventApprove, "")
			suite.Require().NoError(err)
		}
	}
}

func (suite *AdminTestSuite) TestDashboard() {
	stats, err := suite.service.Dashboard()
	suite.Require().NoError(err)

	suite.Equal(int64(3), stats.TotalApplicants)
	suite.Equal(int64(3), stats.Beneficiaries)
	suite.Equal(int64(1), stats.Indigents)
	suite.Equal(int64(1), stats.ByStatus[models.AccountStatusVerified])
	suite.Equal(int64(2), stats.ByStatus[models.AccountStatusPending])
	suite.Equal(int64(2), stats.ByBarangay["San Isidro"])
	suite.Equal(int64(1), stats.ByBarangay["Poblacion"])

	// The approval above left one unread acceptance notice.
	suite.Equal(int64(1), stats.UnreadNotifications)
	suite.Equal(int64(0), stats.PendingDocuments)
}

func (suite *AdminTestSuite) TestListApplicantsByStatus() {
	result, err := suite.service.ListApplicants(
		ApplicantFilter{Status: models.AccountStatusPending},
		utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
	)
	suite.Require().NoError(err)
	suite.Equal(int64(2), result.Total)

	rows := result.Data.([]ApplicantRow)
	for _, row := range rows {
		suite.Equal(models.AccountStatusPending, row.Status)
	}
}

func (suite *AdminTestSuite) TestListApplicantsByBarangayAndSearch() {
	result, err := suite.service.ListApplicants(
		ApplicantFilter{Barangay: "Poblacion"},
		utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
	)
	suite.Require().NoError(err)
	suite.Equal(int64(1), result.Total)

	result, err = suite.service.ListApplicants(
		ApplicantFilter{},
		utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc", Search: "Reyes"},
	)
	suite.Require().NoError(err)
	suite.Equal(int64(1), result.Total)
}

func (suite *AdminTestSuite) TestListApplicantsPagination() {
	result, err := suite.service.ListApplicants(
		ApplicantFilter{},
		utils.PaginationParams{Page: 1, Limit: 2, Sort: "created_at", Order: "desc"},
	)
	suite.Require().NoError(err)
	suite.Equal(int64(3), result.Total)
	suite.Equal(2, result.TotalPages)
	suite.Len(result.Data.([]ApplicantRow), 2)
}

func (suite *AdminTestSuite) TestRecordAudit() {
	suite.Require().NoError(suite.service.RecordAudit(
		nil, "approve", "applicant", "2026_08_500001",
		models.JSONB{"status": "verified"}, "127.0.0.1", "test-agent",
	))

	result, err := suite.service.ListAuditLogs(utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"})
	suite.Require().NoError(err)
	suite.Equal(int64(1), result.Total)

	logs := result.Data.([]models.AuditLog)
	suite.Equal("approve", logs[0].Action)
	suite.Equal("2026_08_500001", logs[0].ResourceID)
}

func TestAdminTestSuite(t *testing.T) {
	suite.Run(t, new(AdminTestSuite))
}
