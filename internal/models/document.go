// internal/models/document.go
package models

import "time"

// DocumentKind enumerates the seven per-applicant document tables. Kinds are
// resolved through the registry below; a kind that is not registered is
// rejected before any query is built.
type DocumentKind string

const (
	DocumentKindPrimaryID           DocumentKind = "primary_id"
	DocumentKindTaxReturn           DocumentKind = "tax_return"
	DocumentKindMedicalCertificate  DocumentKind = "medical_certificate"
	DocumentKindMarriageCertificate DocumentKind = "marriage_certificate"
	DocumentKindCENOMAR             DocumentKind = "cenomar"
	DocumentKindDeathCertificate    DocumentKind = "death_certificate"
	DocumentKindBarangayCertificate DocumentKind = "barangay_certificate"
)

// Document is the shared row shape of all seven document tables. The table
// is chosen per kind via DocumentKindMeta, never by string concatenation.
type Document struct {
	BaseModel
	Code            string         `json:"code" gorm:"size:20;not null;uniqueIndex"`
	FileName        string         `json:"file_name" gorm:"size:512;not null"`
	DisplayName     string         `json:"display_name" gorm:"size:255"`
	UploadedAt      time.Time      `json:"uploaded_at"`
	Status          DocumentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	RejectionReason *string        `json:"rejection_reason" gorm:"type:text"`
}

// DocumentKindMeta is the per-kind metadata resolved once at startup.
type DocumentKindMeta struct {
	Kind  DocumentKind
	Table string
	Label string
}

var documentKinds = map[DocumentKind]DocumentKindMeta{
	DocumentKindPrimaryID:           {DocumentKindPrimaryID, "primary_id_documents", "Primary ID"},
	DocumentKindTaxReturn:           {DocumentKindTaxReturn, "tax_return_documents", "Income Tax Return"},
	DocumentKindMedicalCertificate:  {DocumentKindMedicalCertificate, "medical_certificate_documents", "Medical Certificate"},
	DocumentKindMarriageCertificate: {DocumentKindMarriageCertificate, "marriage_certificate_documents", "Marriage Certificate"},
	DocumentKindCENOMAR:             {DocumentKindCENOMAR, "cenomar_documents", "Certificate of No Marriage"},
	DocumentKindDeathCertificate:    {DocumentKindDeathCertificate, "death_certificate_documents", "Death Certificate"},
	DocumentKindBarangayCertificate: {DocumentKindBarangayCertificate, "barangay_certificate_documents", "Barangay Certificate"},
}

// ResolveDocumentKind returns the metadata for a kind, or false for kinds
// that are not part of the registry.
func ResolveDocumentKind(kind DocumentKind) (DocumentKindMeta, bool) {
	meta, ok := documentKinds[kind]
	return meta, ok
}

// DocumentKindMetas returns the registry in a stable order, for migrations
// and projections.
func DocumentKindMetas() []DocumentKindMeta {
	order := []DocumentKind{
		DocumentKindPrimaryID,
		DocumentKindTaxReturn,
		DocumentKindMedicalCertificate,
		DocumentKindMarriageCertificate,
		DocumentKindCENOMAR,
		DocumentKindDeathCertificate,
		DocumentKindBarangayCertificate,
	}
	metas := make([]DocumentKindMeta, 0, len(order))
	for _, k := range order {
		metas = append(metas, documentKinds[k])
	}
	return metas
}
