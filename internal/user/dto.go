package user

import (
	"strings"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/roles"
)

type CreateUserDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
}

func (d *CreateUserDTO) Validate() error {
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if !roles.IsValid(d.Role) {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeUnknownRole)
	}
	return nil
}

type SetRoleDTO struct {
	Role string `json:"role"`
}

func (d *SetRoleDTO) Validate() error {
	if !roles.IsValid(d.Role) {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeUnknownRole)
	}
	return nil
}
