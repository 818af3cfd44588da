package department

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/employee"
)

// Department groups employees under an optional head and deputy head.
// Invariants: the head, when set, references an active employee; the deputy,
// when set, differs from the head.
type Department struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	HeadID       *int64    `json:"head_id,omitempty" gorm:"column:head_id"`
	DeputyHeadID *int64    `json:"deputy_head_id,omitempty" gorm:"column:deputy_head_id"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// Succession actions. Exactly one outcome is chosen by the operator.
const (
	ActionPromoteDeputy     = "promote_deputy"
	ActionAssignReplacement = "assign_replacement"
)

// SuccessionCandidates is what the operator is shown when a head must be
// replaced: the designated deputy as the one-click option, plus the active
// employees of the department excluding the outgoing head and the deputy.
type SuccessionCandidates struct {
	DepartmentID int64                `json:"department_id"`
	OutgoingHead *employee.Employee   `json:"outgoing_head,omitempty"`
	Deputy       *employee.Employee   `json:"deputy,omitempty"`
	Candidates   []*employee.Employee `json:"candidates"`
}

var (
	ErrDepartmentNotFound = internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	ErrHeadNotActive      = internal.NewValidationError("department head must reference an active employee", internal.ErrCodeHeadNotActive)
	ErrDeputyEqualsHead   = internal.NewValidationError("deputy head must differ from head", internal.ErrCodeDeputyEqualsHead)
	ErrNoSuccessionNeeded = internal.NewConflictError("department has no head to succeed", internal.ErrCodeAlreadyResolved)
	ErrNoDeputy           = internal.NewValidationError("department has no deputy to promote", internal.ErrCodeValidationFailed)
	ErrBadCandidate       = internal.NewValidationError("replacement must be an active employee of the department", internal.ErrCodeValidationFailed)
)
