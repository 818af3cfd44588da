package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(account *user.UserAccount) error {
	return r.db.Create(account).Error
}

func (r *UserRepository) GetByID(id int64) (*user.UserAccount, error) {
	var account user.UserAccount
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.UserAccount, error) {
	var account user.UserAccount
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *UserRepository) List(limit, offset int) ([]*user.UserAccount, error) {
	var accounts []*user.UserAccount
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&accounts).Error
	return accounts, err
}

func (r *UserRepository) SetRole(id int64, role string) error {
	res := r.db.Model(&user.UserAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(id int64, active bool) error {
	res := r.db.Model(&user.UserAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
