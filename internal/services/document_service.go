// internal/services/document_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/database"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/retry"
)

// DocumentService owns the per-kind document tables. Each applicant code
// has at most one row per kind; re-uploading replaces the file reference
// in place instead of inserting a second row.
type DocumentService struct {
	db     *gorm.DB
	policy retry.Policy
}

const (
	DocumentActionInserted = "inserted"
	DocumentActionUpdated  = "updated"
)

type DocumentUpsertRequest struct {
	Code        string              `json:"code" validate:"required,applicant_code"`
	Kind        models.DocumentKind `json:"kind" validate:"required"`
	FileName    string              `json:"file_name" validate:"required"`
	DisplayName string              `json:"display_name,omitempty"`

	// Status the stored row should carry. Defaults to pending; callers
	// that have already received the file pass submitted.
	Status models.DocumentStatus `json:"status,omitempty"`

	// ClearRejection drops a previous rejection reason along with the
	// re-upload. Left false, the reason stays visible to reviewers.
	ClearRejection bool `json:"clear_rejection,omitempty"`
}

type DocumentUpsertResult struct {
	Action string    `json:"action"`
	ID     uuid.UUID `json:"id"`
}

func NewDocumentService(db *gorm.DB, policy retry.Policy) *DocumentService {
	return &DocumentService{db: db, policy: policy}
}

// Upsert inserts or replaces the document row for (code, kind). The
// applicant must exist and the kind must be registered before any table
// is touched.
func (s *DocumentService) Upsert(req *DocumentUpsertRequest) (*DocumentUpsertResult, error) {
	meta, ok := models.ResolveDocumentKind(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentKind, req.Kind)
	}

	status := req.Status
	switch status {
	case "":
		status = models.DocumentStatusPending
	case models.DocumentStatusPending, models.DocumentStatusSubmitted:
	default:
		return nil, fmt.Errorf("invalid document status %q", status)
	}

	if err := s.requireApplicant(req.Code); err != nil {
		return nil, err
	}

	var result DocumentUpsertResult
	err := s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			var existing models.Document
			err := database.LockForUpdate(tx).Table(meta.Table).
				Where("code = ?", req.Code).
				First(&existing).Error

			if errors.Is(err, gorm.ErrRecordNotFound) {
				doc := models.Document{
					Code:        req.Code,
					FileName:    req.FileName,
					DisplayName: req.DisplayName,
					UploadedAt:  time.Now(),
					Status:      status,
				}
				if err := tx.Table(meta.Table).Create(&doc).Error; err != nil {
					return wrapStoreError(err)
				}
				result = DocumentUpsertResult{Action: DocumentActionInserted, ID: doc.ID}
				return nil
			} else if err != nil {
				return wrapStoreError(err)
			}

			existing.FileName = req.FileName
			existing.DisplayName = req.DisplayName
			existing.UploadedAt = time.Now()
			existing.Status = status
			if req.ClearRejection {
				existing.RejectionReason = nil
			}

			if err := tx.Table(meta.Table).Save(&existing).Error; err != nil {
				return wrapStoreError(err)
			}
			result = DocumentUpsertResult{Action: DocumentActionUpdated, ID: existing.ID}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete removes the document row for (code, kind). Returns whether a row
// was actually deleted; deleting an absent document is not an error.
func (s *DocumentService) Delete(code string, kind models.DocumentKind) (bool, error) {
	meta, ok := models.ResolveDocumentKind(kind)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownDocumentKind, kind)
	}

	if err := s.requireApplicant(code); err != nil {
		return false, err
	}

	var deleted bool
	err := s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			// Hard delete: the unique (code) index must not trip over a
			// soft-deleted row when the applicant uploads again.
			res := tx.Table(meta.Table).Unscoped().Where("code = ?", code).Delete(&models.Document{})
			if res.Error != nil {
				return wrapStoreError(res.Error)
			}
			deleted = res.RowsAffected > 0
			return nil
		})
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// DocumentEntry is one row of the per-applicant document checklist.
type DocumentEntry struct {
	Kind     models.DocumentKind `json:"kind"`
	Label    string              `json:"label"`
	Document *models.Document    `json:"document,omitempty"`
}

// List returns every registered kind for a code, with the stored row when
// one exists. Kinds with no upload yet appear with a nil document.
func (s *DocumentService) List(code string) ([]DocumentEntry, error) {
	if err := s.requireApplicant(code); err != nil {
		return nil, err
	}

	entries := make([]DocumentEntry, 0, len(models.DocumentKindMetas()))
	for _, meta := range models.DocumentKindMetas() {
		entry := DocumentEntry{Kind: meta.Kind, Label: meta.Label}

		var doc models.Document
		err := s.db.Table(meta.Table).Where("code = ?", code).First(&doc).Error
		if err == nil {
			entry.Document = &doc
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapStoreError(err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Reject marks an uploaded document as rejected with a reviewer reason.
func (s *DocumentService) Reject(code string, kind models.DocumentKind, reason string) error {
	meta, ok := models.ResolveDocumentKind(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocumentKind, kind)
	}

	return s.policy.Do(func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			var doc models.Document
			err := database.LockForUpdate(tx).Table(meta.Table).
				Where("code = ?", code).
				First(&doc).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownApplicant
			} else if err != nil {
				return wrapStoreError(err)
			}

			doc.Status = models.DocumentStatusPending
			doc.RejectionReason = &reason
			if err := tx.Table(meta.Table).Save(&doc).Error; err != nil {
				return wrapStoreError(err)
			}
			return nil
		})
	})
}

func (s *DocumentService) requireApplicant(code string) error {
	var count int64
	if err := s.db.Model(&models.Applicant{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return wrapStoreError(err)
	}
	if count == 0 {
		return ErrUnknownApplicant
	}
	return nil
}
