package postgres

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(dept *department.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) GetByID(id int64) (*department.Department, error) {
	var dept department.Department
	err := r.db.Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) List(limit, offset int) ([]*department.Department, error) {
	var depts []*department.Department
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) Update(dept *department.Department) error {
	dept.UpdatedAt = time.Now()
	return r.db.Save(dept).Error
}

// SetLeadership writes head and deputy in one statement. A nil deputy clears
// the slot, which is what deputy promotion needs.
func (r *DepartmentRepository) SetLeadership(id int64, headID *int64, deputyID *int64) error {
	res := r.db.Model(&department.Department{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"head_id":        headID,
			"deputy_head_id": deputyID,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// DepartmentHeadedBy implements the employee domain's HeadshipChecker.
func (r *DepartmentRepository) DepartmentHeadedBy(employeeID int64) (int64, bool, error) {
	var departmentID int64
	row := r.db.Raw(`SELECT id FROM departments WHERE head_id = ?`, employeeID).Row()
	if err := row.Scan(&departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return departmentID, true, nil
}
