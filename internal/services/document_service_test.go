// internal/services/document_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/models"
)

type DocumentTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *DocumentService
}

func (suite *DocumentTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewDocumentService(suite.db, testPolicy())
	seedApplicant(suite.T(), suite.db, "2026_08_200001")
}

func (suite *DocumentTestSuite) TestUpsertInsertsThenUpdates() {
	first, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindPrimaryID,
		FileName: "documents/2026_08_200001/primary_id/1-v1.pdf",
		Status:   models.DocumentStatusSubmitted,
	})
	suite.Require().NoError(err)
	suite.Equal(DocumentActionInserted, first.Action)

	second, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindPrimaryID,
		FileName: "documents/2026_08_200001/primary_id/2-v2.pdf",
		Status:   models.DocumentStatusSubmitted,
	})
	suite.Require().NoError(err)
	suite.Equal(DocumentActionUpdated, second.Action)
	suite.Equal(first.ID, second.ID, "the row is replaced in place")

	var count int64
	suite.db.Table("primary_id_documents").Where("code = ?", "2026_08_200001").Count(&count)
	suite.Equal(int64(1), count)

	var doc models.Document
	suite.Require().NoError(suite.db.Table("primary_id_documents").Where("code = ?", "2026_08_200001").First(&doc).Error)
	suite.Equal("documents/2026_08_200001/primary_id/2-v2.pdf", doc.FileName)
	suite.Equal(models.DocumentStatusSubmitted, doc.Status)
}

func (suite *DocumentTestSuite) TestUpsertStatusDefaultsToPending() {
	_, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindTaxReturn,
		FileName: "tax-v1.pdf",
	})
	suite.Require().NoError(err)

	var doc models.Document
	suite.Require().NoError(suite.db.Table("tax_return_documents").Where("code = ?", "2026_08_200001").First(&doc).Error)
	suite.Equal(models.DocumentStatusPending, doc.Status)

	// The caller marks the row submitted once the file is in hand.
	_, err = suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindTaxReturn,
		FileName: "tax-v2.pdf",
		Status:   models.DocumentStatusSubmitted,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Table("tax_return_documents").Where("code = ?", "2026_08_200001").First(&doc).Error)
	suite.Equal(models.DocumentStatusSubmitted, doc.Status)

	_, err = suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindTaxReturn,
		FileName: "tax-v3.pdf",
		Status:   "approved",
	})
	suite.Error(err, "only pending and submitted are accepted from callers")
}

func (suite *DocumentTestSuite) TestKindsAreIsolatedTables() {
	for _, kind := range []models.DocumentKind{models.DocumentKindPrimaryID, models.DocumentKindTaxReturn, models.DocumentKindBarangayCertificate} {
		_, err := suite.service.Upsert(&DocumentUpsertRequest{
			Code:     "2026_08_200001",
			Kind:     kind,
			FileName: "file-" + string(kind) + ".pdf",
		})
		suite.Require().NoError(err)
	}

	entries, err := suite.service.List("2026_08_200001")
	suite.Require().NoError(err)
	suite.Len(entries, 7)

	uploaded := 0
	for _, entry := range entries {
		if entry.Document != nil {
			uploaded++
		}
	}
	suite.Equal(3, uploaded)
}

func (suite *DocumentTestSuite) TestUpsertRejectsUnknownKind() {
	_, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     "passport",
		FileName: "passport.pdf",
	})
	suite.ErrorIs(err, ErrUnknownDocumentKind)
}

func (suite *DocumentTestSuite) TestUpsertRejectsUnknownApplicant() {
	_, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_999999",
		Kind:     models.DocumentKindPrimaryID,
		FileName: "id.pdf",
	})
	suite.ErrorIs(err, ErrUnknownApplicant)
}

func (suite *DocumentTestSuite) TestRejectionReasonSurvivesReupload() {
	_, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindMedicalCertificate,
		FileName: "med-v1.pdf",
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Reject("2026_08_200001", models.DocumentKindMedicalCertificate, "Document is blurry"))

	// A plain re-upload keeps the reason visible for the reviewer.
	_, err = suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindMedicalCertificate,
		FileName: "med-v2.pdf",
	})
	suite.Require().NoError(err)

	var doc models.Document
	suite.Require().NoError(suite.db.Table("medical_certificate_documents").Where("code = ?", "2026_08_200001").First(&doc).Error)
	suite.Require().NotNil(doc.RejectionReason)
	suite.Equal("Document is blurry", *doc.RejectionReason)

	// Clearing is explicit.
	_, err = suite.service.Upsert(&DocumentUpsertRequest{
		Code:           "2026_08_200001",
		Kind:           models.DocumentKindMedicalCertificate,
		FileName:       "med-v3.pdf",
		ClearRejection: true,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Table("medical_certificate_documents").Where("code = ?", "2026_08_200001").First(&doc).Error)
	suite.Nil(doc.RejectionReason)
}

func (suite *DocumentTestSuite) TestDeleteIsIdempotent() {
	_, err := suite.service.Upsert(&DocumentUpsertRequest{
		Code:     "2026_08_200001",
		Kind:     models.DocumentKindCENOMAR,
		FileName: "cenomar.pdf",
	})
	suite.Require().NoError(err)

	deleted, err := suite.service.Delete("2026_08_200001", models.DocumentKindCENOMAR)
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.service.Delete("2026_08_200001", models.DocumentKindCENOMAR)
	suite.Require().NoError(err)
	suite.False(deleted, "deleting an absent document is not an error")
}

func TestDocumentTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentTestSuite))
}
