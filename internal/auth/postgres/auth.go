package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(email string) (string, int64, error) {
	var passwordHash string
	var userID int64

	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`
	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUser(userID int64) (*internal.AuthUser, error) {
	var user internal.AuthUser
	var employeeID sql.NullInt64

	query := `SELECT id, email, role, employee_id FROM users WHERE id = ? AND is_active = true`
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Role, &employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, err
	}
	if employeeID.Valid {
		user.EmployeeID = &employeeID.Int64
	}
	return &user, nil
}
