package employee

import (
	"errors"
	"time"

	"github.com/peopleops/hr-platform/internal/roles"
)

type CreateEmployeeDTO struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	Role         string    `json:"role"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	SalaryCents  int64     `json:"salary_cents"`
	HiredAt      time.Time `json:"hired_at"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first_name is required")
	}
	if dto.LastName == "" {
		return errors.New("last_name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if !roles.IsValid(dto.Role) {
		return errors.New("role must be one of the known role tags")
	}
	if dto.SalaryCents < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}

type UpdateEmployeeDTO struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	ManagerID    *int64  `json:"manager_id,omitempty"`
	SalaryCents  *int64  `json:"salary_cents,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	if dto.FirstName != nil && *dto.FirstName == "" {
		return errors.New("first_name must not be empty")
	}
	if dto.LastName != nil && *dto.LastName == "" {
		return errors.New("last_name must not be empty")
	}
	if dto.SalaryCents != nil && *dto.SalaryCents < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (dto SetStatusDTO) Validate() error {
	if !ValidStatus(dto.Status) {
		return errors.New("status must be active, inactive or on_leave")
	}
	return nil
}

// DeactivationResult tells the operator whether the status flip left a
// department without a head, so the succession flow can be offered.
type DeactivationResult struct {
	Employee           *Employee `json:"employee"`
	RequiresSuccession bool      `json:"requires_succession"`
	DepartmentID       *int64    `json:"department_id,omitempty"`
}
