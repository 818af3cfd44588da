package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) List(limit, offset int, departmentID *int64) ([]*employee.Employee, error) {
	var emps []*employee.Employee
	q := r.db.Order("last_name ASC, first_name ASC").Limit(limit).Offset(offset)
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}
	err := q.Find(&emps).Error
	return emps, err
}

func (r *EmployeeRepository) ActiveInDepartment(departmentID int64) ([]*employee.Employee, error) {
	var emps []*employee.Employee
	err := r.db.
		Where("department_id = ? AND status = ?", departmentID, employee.StatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *EmployeeRepository) Update(emp *employee.Employee) error {
	emp.UpdatedAt = time.Now()
	return r.db.Save(emp).Error
}

func (r *EmployeeRepository) SetStatus(id int64, status string, deactivatedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if deactivatedAt != nil {
		updates["deactivated_at"] = *deactivatedAt
	}

	res := r.db.Model(&employee.Employee{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
