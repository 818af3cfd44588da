package leave

import "time"

// LeaveBalance is the remaining-day counter for one employee, leave type and
// calendar year. Rows are created lazily with the annual default the first
// time a balance is read or decremented.
type LeaveBalance struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	Type       string    `json:"type" gorm:"column:leave_type;not null"`
	Year       int       `json:"year" gorm:"column:year;not null"`
	Remaining  int       `json:"remaining" gorm:"column:remaining;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Annual allowances per leave type. Sick leave is capped at the calendar year
// so it never blocks an approval in practice.
const (
	DefaultAnnualDays = 25
	DefaultCasualDays = 25
	DefaultSickDays   = 365
)

func DefaultAllowance(leaveType string) (int, error) {
	switch leaveType {
	case TypeAnnual:
		return DefaultAnnualDays, nil
	case TypeCasual:
		return DefaultCasualDays, nil
	case TypeSick:
		return DefaultSickDays, nil
	}
	return 0, ErrUnknownLeaveType
}
