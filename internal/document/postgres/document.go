package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/document"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *document.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var doc document.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListForEmployee(employeeID int64) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}
