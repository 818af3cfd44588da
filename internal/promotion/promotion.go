package promotion

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// RoleHistoryEntry is one span of an employee's role history. Entries never
// overlap; at most one entry per employee is open (EffectiveTo == nil).
type RoleHistoryEntry struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	EmployeeID    int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	Role          string     `json:"role" gorm:"column:role;not null"`
	DepartmentID  *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	EffectiveFrom time.Time  `json:"effective_from" gorm:"column:effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" gorm:"column:effective_to"`
}

func (RoleHistoryEntry) TableName() string {
	return "employee_role_history"
}

func (e *RoleHistoryEntry) Open() bool {
	return e.EffectiveTo == nil
}

// PromotionRequest is a role change waiting for an approver with the
// manage_roles capability. Same lifecycle as every other request: pending is
// initial, approved/rejected are terminal.
type PromotionRequest struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	EmployeeID  int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	OldRole     string     `json:"old_role" gorm:"column:old_role"`
	NewRole     string     `json:"new_role" gorm:"column:new_role;not null"`
	Reason      string     `json:"reason" gorm:"column:reason"`
	Status      string     `json:"status" gorm:"column:status;default:pending"`
	ApproverID  *int64     `json:"approver_id,omitempty" gorm:"column:approver_id"`
	Note        *string    `json:"note,omitempty" gorm:"column:note"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	SubmittedAt time.Time  `json:"submitted_at" gorm:"column:submitted_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (PromotionRequest) TableName() string {
	return "role_promotions"
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrRequestNotFound = internal.NewNotFoundError("promotion request not found", internal.ErrCodeRequestNotFound)
	ErrAlreadyResolved = internal.NewConflictError("promotion request already resolved", internal.ErrCodeAlreadyResolved)
)
