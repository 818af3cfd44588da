package document

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peopleops/hr-platform/internal"
)

type Repository interface {
	Create(doc *Document) error
	GetByID(id int64) (*Document, error)
	ListForEmployee(employeeID int64) ([]*Document, error)
}

type Service struct {
	repo    Repository
	storage Storage
	logger  *slog.Logger
}

func NewService(repo Repository, storage Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

type Upload struct {
	EmployeeID  int64
	UploadedBy  int64
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// StoreReceipt saves an expense receipt under the employee's expenses prefix
// with a random object name.
func (s *Service) StoreReceipt(up Upload) (*Document, error) {
	if err := validateUpload(up); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("employees/%d/expenses/%s%s",
		up.EmployeeID, uuid.NewString(), extensionFor(up))
	return s.store(KindReceipt, path, up)
}

// StoreMedicalCertificate saves a certificate keyed by employee and upload
// time, matching the object-store convention for certificates.
func (s *Service) StoreMedicalCertificate(up Upload) (*Document, error) {
	if err := validateUpload(up); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("medical-certificates/%d-%d%s",
		up.EmployeeID, time.Now().Unix(), extensionFor(up))
	return s.store(KindMedicalCertificate, path, up)
}

func (s *Service) store(kind, path string, up Upload) (*Document, error) {
	// cap the read as well, Content-Length can lie
	if err := s.storage.Save(path, io.LimitReader(up.Body, MaxFileSize)); err != nil {
		s.logger.Error("failed to store document", "path", path, "error", err)
		return nil, internal.NewInternalError("failed to store document", err)
	}

	doc := &Document{
		EmployeeID:  up.EmployeeID,
		Kind:        kind,
		FileName:    up.FileName,
		ContentType: up.ContentType,
		SizeBytes:   up.SizeBytes,
		StoragePath: path,
		UploadedBy:  up.UploadedBy,
	}
	if err := s.repo.Create(doc); err != nil {
		s.logger.Error("failed to record document", "path", path, "error", err)
		return nil, internal.NewInternalError("failed to record document", err)
	}

	s.logger.Info("document stored",
		"document_id", doc.ID,
		"employee_id", doc.EmployeeID,
		"kind", kind,
		"size_bytes", doc.SizeBytes)
	return doc, nil
}

func (s *Service) GetDocument(id int64) (*Document, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListForEmployee(employeeID int64) ([]*Document, error) {
	return s.repo.ListForEmployee(employeeID)
}

// OpenContent returns the stored bytes for streaming to the caller.
func (s *Service) OpenContent(id int64) (*Document, io.ReadCloser, error) {
	doc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(doc.StoragePath)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to open document", err)
	}
	return doc, rc, nil
}

func validateUpload(up Upload) error {
	if up.SizeBytes > MaxFileSize {
		return ErrFileTooLarge
	}
	if !AllowedContentType(up.ContentType) {
		return ErrUnsupportedType
	}
	return nil
}

// extensionFor prefers the uploaded file name's extension, falling back to
// the content type.
func extensionFor(up Upload) string {
	if ext := filepath.Ext(up.FileName); ext != "" {
		return strings.ToLower(ext)
	}
	if exts, err := mime.ExtensionsByType(up.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
