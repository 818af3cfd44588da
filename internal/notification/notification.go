package notification

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// Notification is an in-app message addressed to an employee.
type Notification struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	Type       string    `json:"type" gorm:"column:notification_type;not null"`
	Message    string    `json:"message" gorm:"column:message"`
	Read       bool      `json:"read" gorm:"column:read;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

const (
	TypeLeaveResolved      = "leave_resolved"
	TypeExpenseResolved    = "expense_resolved"
	TypePromotionApplied   = "promotion_applied"
	TypeSuccessionResolved = "succession_resolved"
)

var ErrNotificationNotFound = internal.NewNotFoundError("notification not found", internal.ErrCodeRequestNotFound)
