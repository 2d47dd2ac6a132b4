// internal/services/admin_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// AdminService serves the reviewer-facing reads: dashboard counts, the
// applicant worklist, and the audit trail writer.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// DashboardStats is the reviewer landing-page summary.
type DashboardStats struct {
	TotalApplicants     int64                          `json:"total_applicants"`
	Beneficiaries       int64                          `json:"beneficiaries"`
	Indigents           int64                          `json:"indigents"`
	PendingDocuments    int64                          `json:"pending_documents"`
	UnreadNotifications int64                          `json:"unread_notifications"`
	ByStatus            map[models.AccountStatus]int64 `json:"by_status"`
	ByBarangay          map[string]int64               `json:"by_barangay"`
}

func (s *AdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[models.AccountStatus]int64),
		ByBarangay: make(map[string]int64),
	}

	if err := s.db.Model(&models.Applicant{}).Count(&stats.TotalApplicants).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if err := s.db.Model(&models.Applicant{}).Where("is_beneficiary = ?", true).Count(&stats.Beneficiaries).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if err := s.db.Model(&models.Applicant{}).Where("is_indigent = ?", true).Count(&stats.Indigents).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	// Documents still awaiting a valid re-upload, across the seven tables.
	for _, meta := range models.DocumentKindMetas() {
		var count int64
		err := s.db.Table(meta.Table).
			Where("status = ? AND deleted_at IS NULL", models.DocumentStatusPending).
			Count(&count).Error
		if err != nil {
			return nil, wrapStoreError(err)
		}
		stats.PendingDocuments += count
	}

	for _, table := range []string{"accepted_logs", "declined_logs", "terminated_logs", "remarked_logs"} {
		var count int64
		err := s.db.Table(table).
			Where("read = ? AND deleted_at IS NULL", false).
			Count(&count).Error
		if err != nil {
			return nil, wrapStoreError(err)
		}
		stats.UnreadNotifications += count
	}

	var statusRows []struct {
		Status models.AccountStatus
		Count  int64
	}
	err := s.db.Model(&models.Account{}).
		Select("status, count(*) as count").
		Where("role = ?", models.AccountRoleApplicant).
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, wrapStoreError(err)
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var barangayRows []struct {
		Barangay string
		Count    int64
	}
	err = s.db.Model(&models.Applicant{}).
		Select("barangay, count(*) as count").
		Where("barangay <> ''").
		Group("barangay").
		Scan(&barangayRows).Error
	if err != nil {
		return nil, wrapStoreError(err)
	}
	for _, row := range barangayRows {
		stats.ByBarangay[row.Barangay] = row.Count
	}

	return stats, nil
}

// ApplicantFilter narrows the worklist. Empty fields match everything.
type ApplicantFilter struct {
	Status      models.AccountStatus
	Barangay    string
	Beneficiary *bool
	Indigent    *bool
}

// ApplicantRow is one worklist entry: the profile joined with the account
// status the reviewer acts on.
type ApplicantRow struct {
	models.Applicant
	Status models.AccountStatus `json:"status"`
}

// ListApplicants returns the filtered, paginated worklist.
func (s *AdminService) ListApplicants(filter ApplicantFilter, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Applicant{}).
		Select("applicants.*, accounts.status as status").
		Joins("LEFT JOIN accounts ON accounts.code = applicants.code AND accounts.deleted_at IS NULL")

	if filter.Status != "" {
		query = query.Where("accounts.status = ?", filter.Status)
	}
	if filter.Barangay != "" {
		query = query.Where("applicants.barangay = ?", filter.Barangay)
	}
	if filter.Beneficiary != nil {
		query = query.Where("applicants.is_beneficiary = ?", *filter.Beneficiary)
	}
	if filter.Indigent != nil {
		query = query.Where("applicants.is_indigent = ?", *filter.Indigent)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where(
			"applicants.first_name LIKE ? OR applicants.last_name LIKE ? OR applicants.email LIKE ? OR applicants.code LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	// Sort columns are qualified because accounts carries the same names.
	sortColumns := map[string]string{
		"created_at": "applicants.created_at",
		"last_name":  "applicants.last_name",
		"barangay":   "applicants.barangay",
		"code":       "applicants.code",
	}
	sortField, ok := sortColumns[params.Sort]
	if !ok {
		sortField = "applicants.created_at"
	}

	var rows []ApplicantRow
	query = query.Order(sortField + " " + params.Order)
	query = utils.ApplyPagination(query, params)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

// RecordAudit appends one audit-trail row. Audit failures are reported but
// must never abort the action they describe; callers log and move on.
func (s *AdminService) RecordAudit(accountID *uuid.UUID, action, resourceType, resourceID string, newValues models.JSONB, ip, userAgent string) error {
	entry := &models.AuditLog{
		AccountID:    accountID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    newValues,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// ListAuditLogs returns the newest audit entries for the admin console.
func (s *AdminService) ListAuditLogs(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.AuditLog{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("action LIKE ? OR resource_type LIKE ? OR resource_id LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	var logs []models.AuditLog
	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&logs).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	result := utils.CreatePaginationResult(logs, total, params)
	return &result, nil
}
