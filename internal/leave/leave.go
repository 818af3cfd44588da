package leave

import (
	"errors"
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// LeaveRequest follows the shared lifecycle: pending on submission,
// approved/rejected terminal, approver and resolution time stamped on the
// transition.
type LeaveRequest struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	EmployeeID  int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	Type        string     `json:"type" gorm:"column:leave_type;not null"`
	StartDate   time.Time  `json:"start_date" gorm:"column:start_date;type:date"`
	EndDate     time.Time  `json:"end_date" gorm:"column:end_date;type:date"`
	Days        int        `json:"days" gorm:"column:days"`
	Reason      string     `json:"reason" gorm:"column:reason"`
	Status      string     `json:"status" gorm:"column:status;default:pending"`
	ApproverID  *int64     `json:"approver_id,omitempty" gorm:"column:approver_id"`
	Note        *string    `json:"note,omitempty" gorm:"column:note"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	SubmittedAt time.Time  `json:"submitted_at" gorm:"column:submitted_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeCasual = "casual"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// medicalCertificateThreshold is the sick-leave span, in days, above which a
// medical certificate must accompany the request.
const medicalCertificateThreshold = 3

func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeAnnual, TypeSick, TypeCasual:
		return true
	}
	return false
}

func (r *LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// DaysBetween returns the inclusive day count of a leave span.
func DaysBetween(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// RequiresMedicalCertificate reports whether a request of the given type and
// span must carry a medical certificate.
func RequiresMedicalCertificate(leaveType string, days int) bool {
	return leaveType == TypeSick && days > medicalCertificateThreshold
}

var (
	ErrRequestNotFound     = internal.NewNotFoundError("leave request not found", internal.ErrCodeRequestNotFound)
	ErrAlreadyResolved     = internal.NewConflictError("leave request already resolved", internal.ErrCodeAlreadyResolved)
	ErrInsufficientBalance = internal.NewConflictError("insufficient leave balance", internal.ErrCodeInsufficientBalance)
	ErrUnknownLeaveType    = internal.NewValidationError("unknown leave type", internal.ErrCodeUnknownLeaveType)
)
