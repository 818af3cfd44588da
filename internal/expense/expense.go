package expense

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// ExpenseRequest carries two independent approval sub-states. The aggregate
// status only becomes approved once both stages are approved; a rejection at
// either stage is terminal for the whole request.
type ExpenseRequest struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	EmployeeID  int64   `json:"employee_id" gorm:"column:employee_id;not null"`
	AmountCents int64   `json:"amount_cents" gorm:"column:amount_cents;not null"`
	Currency    string  `json:"currency" gorm:"column:currency;default:USD"`
	Category    string  `json:"category" gorm:"column:category;not null"`
	Description string  `json:"description" gorm:"column:description"`
	ReceiptID   *int64  `json:"receipt_id,omitempty" gorm:"column:receipt_id"`

	Status        string `json:"status" gorm:"column:status;default:pending"`
	ManagerStatus string `json:"manager_status" gorm:"column:manager_status;default:pending"`
	HRStatus      string `json:"hr_status" gorm:"column:hr_status;default:pending"`

	ManagerApproverID *int64     `json:"manager_approver_id,omitempty" gorm:"column:manager_approver_id"`
	ManagerResolvedAt *time.Time `json:"manager_resolved_at,omitempty" gorm:"column:manager_resolved_at"`
	HRApproverID      *int64     `json:"hr_approver_id,omitempty" gorm:"column:hr_approver_id"`
	HRResolvedAt      *time.Time `json:"hr_resolved_at,omitempty" gorm:"column:hr_resolved_at"`
	Note              *string    `json:"note,omitempty" gorm:"column:note"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"column:submitted_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (ExpenseRequest) TableName() string {
	return "expense_requests"
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Approval stages.
const (
	StageManager = "manager"
	StageHR      = "hr"
)

var validCategories = map[string]bool{
	"travel":          true,
	"meals":           true,
	"accommodation":   true,
	"equipment":       true,
	"office_supplies": true,
	"training":        true,
	"other":           true,
}

func ValidCategory(category string) bool {
	return validCategories[category]
}

func (r *ExpenseRequest) IsPending() bool {
	return r.Status == StatusPending
}

var (
	ErrRequestNotFound      = internal.NewNotFoundError("expense request not found", internal.ErrCodeRequestNotFound)
	ErrAlreadyResolved      = internal.NewConflictError("expense request already resolved", internal.ErrCodeAlreadyResolved)
	ErrStageAlreadyResolved = internal.NewConflictError("approval stage already resolved", internal.ErrCodeAlreadyResolved)
	ErrManagerStageRequired = internal.NewConflictError("manager approval required before HR approval", internal.ErrCodeStageOutOfOrder)
)
