package promotion

import (
	"errors"

	"github.com/peopleops/hr-platform/internal/roles"
)

type SubmitPromotionDTO struct {
	EmployeeID int64  `json:"employee_id"`
	NewRole    string `json:"new_role"`
	Reason     string `json:"reason"`
}

func (dto SubmitPromotionDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee_id is required")
	}
	if !roles.IsValid(dto.NewRole) {
		return errors.New("new_role must be one of the known role tags")
	}
	if dto.Reason == "" {
		return errors.New("reason is required")
	}
	return nil
}

type ResolvePromotionDTO struct {
	Note string `json:"note,omitempty"`
}
