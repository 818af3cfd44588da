package department

import (
	"context"
	"log/slog"
	"time"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/core/events"
	"github.com/peopleops/hr-platform/internal/employee"
)

type Repository interface {
	Create(dept *Department) error
	GetByID(id int64) (*Department, error)
	List(limit, offset int) ([]*Department, error)
	Update(dept *Department) error
	SetLeadership(id int64, headID *int64, deputyID *int64) error
}

// EmployeeDirectory is the read-side view of the employee domain the
// succession resolver needs.
type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
	ActiveInDepartment(departmentID int64) ([]*employee.Employee, error)
}

// PromotionRecorder closes the outgoing head's open role-history entry and
// opens one for the successor. Implemented by the promotion service.
type PromotionRecorder interface {
	RecordSuccession(outgoingHeadID, newHeadID, departmentID int64, effectiveAt time.Time) error
}

type Service struct {
	repo       Repository
	employees  EmployeeDirectory
	promotions PromotionRecorder
	bus        *events.EventBus
	logger     *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, promotions PromotionRecorder, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		employees:  employees,
		promotions: promotions,
		bus:        bus,
		logger:     logger,
	}
}

func (s *Service) CreateDepartment(dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if err := s.checkLeadership(dto.HeadID, dto.DeputyHeadID); err != nil {
		return nil, err
	}

	now := time.Now()
	dept := &Department{
		Name:         dto.Name,
		HeadID:       dto.HeadID,
		DeputyHeadID: dto.DeputyHeadID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(dept); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return dept, nil
}

func (s *Service) GetDepartment(id int64) (*Department, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListDepartments(limit, offset int) ([]*Department, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) UpdateDepartment(id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		dept.Name = *dto.Name
	}
	if dto.HeadID != nil {
		dept.HeadID = dto.HeadID
	}
	if dto.DeputyHeadID != nil {
		dept.DeputyHeadID = dto.DeputyHeadID
	}
	if dept.HeadID != nil && dept.DeputyHeadID != nil && *dept.HeadID == *dept.DeputyHeadID {
		return nil, ErrDeputyEqualsHead
	}
	if err := s.checkLeadership(dept.HeadID, dept.DeputyHeadID); err != nil {
		return nil, err
	}

	dept.UpdatedAt = time.Now()
	if err := s.repo.Update(dept); err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, err
	}
	return dept, nil
}

// SuccessionCandidates assembles the options offered to the operator: the
// deputy (if any) plus the department's active employees, excluding the
// outgoing head and the deputy.
func (s *Service) SuccessionCandidates(departmentID int64) (*SuccessionCandidates, error) {
	dept, err := s.repo.GetByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept.HeadID == nil {
		return nil, ErrNoSuccessionNeeded
	}

	out := &SuccessionCandidates{DepartmentID: departmentID}

	if head, err := s.employees.GetByID(*dept.HeadID); err == nil {
		out.OutgoingHead = head
	}

	if dept.DeputyHeadID != nil {
		deputy, err := s.employees.GetByID(*dept.DeputyHeadID)
		if err != nil {
			return nil, err
		}
		if deputy.IsActive() {
			out.Deputy = deputy
		}
	}

	active, err := s.employees.ActiveInDepartment(departmentID)
	if err != nil {
		return nil, err
	}

	out.Candidates = make([]*employee.Employee, 0, len(active))
	for _, emp := range active {
		if emp.ID == *dept.HeadID {
			continue
		}
		if dept.DeputyHeadID != nil && emp.ID == *dept.DeputyHeadID {
			continue
		}
		out.Candidates = append(out.Candidates, emp)
	}

	return out, nil
}

// ResolveSuccession applies the operator's choice: the new head is written
// onto the department and the outgoing head's open manager-role history entry
// is closed through the promotion service. Cancellation is simply not calling
// this; no state is held between the candidates call and this one.
func (s *Service) ResolveSuccession(ctx context.Context, departmentID int64, dto ResolveSuccessionDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dept, err := s.repo.GetByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept.HeadID == nil {
		return nil, ErrNoSuccessionNeeded
	}
	outgoingID := *dept.HeadID

	var newHeadID int64
	switch dto.Action {
	case ActionPromoteDeputy:
		if dept.DeputyHeadID == nil {
			return nil, ErrNoDeputy
		}
		newHeadID = *dept.DeputyHeadID
	case ActionAssignReplacement:
		newHeadID = *dto.ReplacementID
	}

	successor, err := s.employees.GetByID(newHeadID)
	if err != nil {
		return nil, err
	}
	if !successor.IsActive() {
		return nil, ErrHeadNotActive
	}
	if successor.DepartmentID == nil || *successor.DepartmentID != departmentID {
		return nil, ErrBadCandidate
	}
	if newHeadID == outgoingID {
		return nil, ErrBadCandidate
	}

	var newDeputy *int64
	if dto.Action == ActionAssignReplacement && dept.DeputyHeadID != nil && *dept.DeputyHeadID != newHeadID {
		// a passed-over deputy keeps the deputy slot
		newDeputy = dept.DeputyHeadID
	}

	if err := s.repo.SetLeadership(departmentID, &newHeadID, newDeputy); err != nil {
		s.logger.Error("failed to write succession", "error", err, "department_id", departmentID)
		return nil, err
	}

	now := time.Now()
	if err := s.promotions.RecordSuccession(outgoingID, newHeadID, departmentID, now); err != nil {
		// leadership is already written; surface the history failure rather
		// than leaving the operator guessing
		s.logger.Error("succession applied but role history update failed",
			"error", err, "department_id", departmentID,
			"outgoing_head_id", outgoingID, "new_head_id", newHeadID)
		return nil, err
	}

	dept.HeadID = &newHeadID
	dept.DeputyHeadID = newDeputy
	dept.UpdatedAt = now

	s.logger.Info("succession resolved",
		"department_id", departmentID,
		"action", dto.Action,
		"outgoing_head_id", outgoingID,
		"new_head_id", newHeadID)

	s.bus.Publish(ctx, events.NewApprovalEvent(events.EventSuccessionResolved, map[string]interface{}{
		"department_id":    departmentID,
		"outgoing_head_id": outgoingID,
		"new_head_id":      newHeadID,
		"action":           dto.Action,
	}))

	return dept, nil
}

func (s *Service) checkLeadership(headID, deputyID *int64) error {
	if headID == nil {
		return nil
	}
	head, err := s.employees.GetByID(*headID)
	if err != nil {
		return err
	}
	if !head.IsActive() {
		return ErrHeadNotActive
	}
	if deputyID != nil && *deputyID == *headID {
		return ErrDeputyEqualsHead
	}
	return nil
}
