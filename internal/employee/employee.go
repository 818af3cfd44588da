package employee

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// Employee is a personnel record. Records are never deleted; leaving the
// company is a status flip to inactive.
type Employee struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	FirstName    string     `json:"first_name" gorm:"column:first_name;not null"`
	LastName     string     `json:"last_name" gorm:"column:last_name;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	DepartmentID *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	Role         string     `json:"role" gorm:"column:role;not null"`
	ManagerID    *int64     `json:"manager_id,omitempty" gorm:"column:manager_id"`
	SalaryCents  int64      `json:"salary_cents,omitempty" gorm:"column:salary_cents"`
	Status       string     `json:"status" gorm:"column:status;default:active"`
	HiredAt      time.Time  `json:"hired_at" gorm:"column:hired_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty" gorm:"column:deactivated_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

// Redacted returns a copy safe for callers without salary visibility.
func (e *Employee) Redacted() *Employee {
	clone := *e
	clone.SalaryCents = 0
	return &clone
}

var (
	ErrEmployeeNotFound = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	ErrInvalidStatus    = internal.NewValidationError("invalid employee status", internal.ErrCodeValidationFailed)
	ErrAlreadyInactive  = internal.NewConflictError("employee is already inactive", internal.ErrCodeAlreadyResolved)
)
