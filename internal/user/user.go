package user

import (
	"time"

	"github.com/peopleops/hr-platform/internal"
)

// UserAccount is a login identity, optionally linked to an employee record.
type UserAccount struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"column:role;not null"`
	EmployeeID   *int64    `json:"employee_id,omitempty" gorm:"column:employee_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (UserAccount) TableName() string {
	return "users"
}

var (
	ErrUserNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken   = internal.NewConflictError("email already registered", internal.ErrCodeValidationFailed)
)
