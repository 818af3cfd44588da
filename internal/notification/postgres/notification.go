package postgres

import (
	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListForEmployee(employeeID int64, unreadOnly bool, limit, offset int) ([]*notification.Notification, error) {
	var items []*notification.Notification
	q := r.db.Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *NotificationRepository) MarkRead(id, employeeID int64) error {
	res := r.db.Model(&notification.Notification{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(employeeID int64) error {
	return r.db.Model(&notification.Notification{}).
		Where("employee_id = ? AND read = ?", employeeID, false).
		Update("read", true).Error
}
