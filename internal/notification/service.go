package notification

import (
	"log/slog"

	"github.com/peopleops/hr-platform/internal"
)

type Repository interface {
	Create(n *Notification) error
	ListForEmployee(employeeID int64, unreadOnly bool, limit, offset int) ([]*Notification, error)
	MarkRead(id, employeeID int64) error
	MarkAllRead(employeeID int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Notify(employeeID int64, notificationType, message string) error {
	n := &Notification{
		EmployeeID: employeeID,
		Type:       notificationType,
		Message:    message,
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification",
			"employee_id", employeeID,
			"type", notificationType,
			"error", err)
		return internal.NewInternalError("failed to create notification", err)
	}
	return nil
}

func (s *Service) ListForEmployee(employeeID int64, unreadOnly bool, limit, offset int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListForEmployee(employeeID, unreadOnly, limit, offset)
}

// MarkRead is scoped to the employee so callers cannot touch someone else's
// notifications.
func (s *Service) MarkRead(id, employeeID int64) error {
	return s.repo.MarkRead(id, employeeID)
}

func (s *Service) MarkAllRead(employeeID int64) error {
	return s.repo.MarkAllRead(employeeID)
}
