package document

import (
	"strings"
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// Document is the metadata row for an uploaded artifact; the bytes live in
// object storage under StoragePath.
type Document struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	EmployeeID  int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	Kind        string    `json:"kind" gorm:"column:kind;not null"`
	FileName    string    `json:"file_name" gorm:"column:file_name"`
	ContentType string    `json:"content_type" gorm:"column:content_type"`
	SizeBytes   int64     `json:"size_bytes" gorm:"column:size_bytes"`
	StoragePath string    `json:"storage_path" gorm:"column:storage_path;not null"`
	UploadedBy  int64     `json:"uploaded_by" gorm:"column:uploaded_by"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Document) TableName() string {
	return "documents"
}

const (
	KindReceipt            = "receipt"
	KindMedicalCertificate = "medical_certificate"
)

// MaxFileSize is the upload ceiling.
const MaxFileSize = 5 << 20

// AllowedContentType accepts any image plus PDF.
func AllowedContentType(contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return contentType == "application/pdf"
}

var (
	ErrDocumentNotFound = internal.NewNotFoundError("document not found", internal.ErrCodeRequestNotFound)
	ErrFileTooLarge     = internal.NewValidationError("file exceeds the 5MB limit", internal.ErrCodeFileTooLarge)
	ErrUnsupportedType  = internal.NewValidationError("only images and PDF files are accepted", internal.ErrCodeUnsupportedFile)
)
