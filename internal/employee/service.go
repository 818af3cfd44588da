package employee

import (
	"log/slog"
	"time"

	"github.com/peopleops/hr-platform/internal"
)

type Repository interface {
	Create(emp *Employee) error
	GetByID(id int64) (*Employee, error)
	List(limit, offset int, departmentID *int64) ([]*Employee, error)
	Update(emp *Employee) error
	SetStatus(id int64, status string, deactivatedAt *time.Time) error
}

// HeadshipChecker reports the department, if any, the employee currently
// heads. Implemented by the department repository; kept as an interface here
// to avoid tying the two domains together.
type HeadshipChecker interface {
	DepartmentHeadedBy(employeeID int64) (departmentID int64, found bool, err error)
}

type Service struct {
	repo      Repository
	headships HeadshipChecker
	logger    *slog.Logger
}

func NewService(repo Repository, headships HeadshipChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		headships: headships,
		logger:    logger,
	}
}

func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	hiredAt := dto.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now()
	}

	now := time.Now()
	emp := &Employee{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		DepartmentID: dto.DepartmentID,
		Role:         dto.Role,
		ManagerID:    dto.ManagerID,
		SalaryCents:  dto.SalaryCents,
		Status:       StatusActive,
		HiredAt:      hiredAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "role", emp.Role)
	return emp, nil
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListEmployees(limit, offset int, departmentID *int64) ([]*Employee, error) {
	return s.repo.List(limit, offset, departmentID)
}

func (s *Service) UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.FirstName != nil {
		emp.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		emp.LastName = *dto.LastName
	}
	if dto.DepartmentID != nil {
		emp.DepartmentID = dto.DepartmentID
	}
	if dto.ManagerID != nil {
		emp.ManagerID = dto.ManagerID
	}
	if dto.SalaryCents != nil {
		emp.SalaryCents = *dto.SalaryCents
	}
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}
	return emp, nil
}

// SetStatus flips the employee status. Records are never deleted, inactive is
// the terminal resting state.
func (s *Service) SetStatus(id int64, dto SetStatusDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var deactivatedAt *time.Time
	if dto.Status == StatusInactive {
		now := time.Now()
		deactivatedAt = &now
	}

	if err := s.repo.SetStatus(id, dto.Status, deactivatedAt); err != nil {
		s.logger.Error("failed to set employee status", "error", err, "employee_id", id)
		return nil, err
	}

	emp.Status = dto.Status
	emp.DeactivatedAt = deactivatedAt
	return emp, nil
}

// Deactivate flips the employee to inactive and reports whether the caller
// must now resolve a department succession. The department record itself is
// untouched until the succession is confirmed.
func (s *Service) Deactivate(id int64) (*DeactivationResult, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp.Status == StatusInactive {
		return nil, ErrAlreadyInactive
	}

	now := time.Now()
	if err := s.repo.SetStatus(id, StatusInactive, &now); err != nil {
		s.logger.Error("failed to deactivate employee", "error", err, "employee_id", id)
		return nil, err
	}
	emp.Status = StatusInactive
	emp.DeactivatedAt = &now

	result := &DeactivationResult{Employee: emp}

	departmentID, headed, err := s.headships.DepartmentHeadedBy(id)
	if err != nil {
		s.logger.Error("headship lookup failed after deactivation", "error", err, "employee_id", id)
		return nil, err
	}
	if headed {
		result.RequiresSuccession = true
		result.DepartmentID = &departmentID
		s.logger.Info("deactivated employee headed a department, succession required",
			"employee_id", id, "department_id", departmentID)
	}

	return result, nil
}
