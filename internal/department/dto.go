package department

import "errors"

type CreateDepartmentDTO struct {
	Name         string `json:"name"`
	HeadID       *int64 `json:"head_id,omitempty"`
	DeputyHeadID *int64 `json:"deputy_head_id,omitempty"`
}

func (dto CreateDepartmentDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.HeadID != nil && dto.DeputyHeadID != nil && *dto.HeadID == *dto.DeputyHeadID {
		return errors.New("deputy head must differ from head")
	}
	return nil
}

type UpdateDepartmentDTO struct {
	Name         *string `json:"name,omitempty"`
	HeadID       *int64  `json:"head_id,omitempty"`
	DeputyHeadID *int64  `json:"deputy_head_id,omitempty"`
}

func (dto UpdateDepartmentDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

// ResolveSuccessionDTO carries the operator's single choice: promote the
// deputy, or assign a named replacement.
type ResolveSuccessionDTO struct {
	Action        string `json:"action"`
	ReplacementID *int64 `json:"replacement_id,omitempty"`
}

func (dto ResolveSuccessionDTO) Validate() error {
	switch dto.Action {
	case ActionPromoteDeputy:
		if dto.ReplacementID != nil {
			return errors.New("replacement_id must not be set when promoting the deputy")
		}
	case ActionAssignReplacement:
		if dto.ReplacementID == nil {
			return errors.New("replacement_id is required when assigning a replacement")
		}
	default:
		return errors.New("action must be promote_deputy or assign_replacement")
	}
	return nil
}
