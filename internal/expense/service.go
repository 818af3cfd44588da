package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/core/events"
)

// Repository persists expense requests. The stage methods are conditional
// writes: they only land while the aggregate request is still pending and
// their own sub-state has not been decided, so two racing resolutions can
// never both win.
type Repository interface {
	Create(req *ExpenseRequest) error
	GetByID(id int64) (*ExpenseRequest, error)
	List(filter ListFilter) ([]*ExpenseRequest, error)
	ApproveManagerStage(id, approverID int64, note string, resolvedAt time.Time) error
	ApproveHRStage(id, approverID int64, note string, resolvedAt time.Time) error
	RejectStage(stage string, id, approverID int64, note string, resolvedAt time.Time) error
}

type ListFilter struct {
	EmployeeID *int64
	Status     string
	Limit      int
	Offset     int
}

type Service struct {
	repo     Repository
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) SubmitExpense(employeeID int64, dto SubmitExpenseDTO) (*ExpenseRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := &ExpenseRequest{
		EmployeeID:    employeeID,
		AmountCents:   dto.AmountCents,
		Currency:      dto.Currency,
		Category:      dto.Category,
		Description:   dto.Description,
		ReceiptID:     dto.ReceiptID,
		Status:        StatusPending,
		ManagerStatus: StatusPending,
		HRStatus:      StatusPending,
		SubmittedAt:   time.Now(),
	}
	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create expense request", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to create expense request", err)
	}

	s.logger.Info("expense request submitted",
		"request_id", req.ID,
		"employee_id", employeeID,
		"category", req.Category,
		"amount_cents", req.AmountCents)
	return req, nil
}

func (s *Service) GetRequest(id int64) (*ExpenseRequest, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListRequests(filter ListFilter) ([]*ExpenseRequest, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(filter)
}

// ApproveStage records one side of the two-stage sign-off. Manager approval
// leaves the aggregate pending until HR signs; HR approval requires the
// manager stage to be approved already and finalizes the request.
func (s *Service) ApproveStage(stage string, id, approverID int64, dto ResolveExpenseDTO) (*ExpenseRequest, error) {
	var err error
	switch stage {
	case StageManager:
		err = s.repo.ApproveManagerStage(id, approverID, dto.Note, time.Now())
	case StageHR:
		err = s.repo.ApproveHRStage(id, approverID, dto.Note, time.Now())
	default:
		return nil, internal.NewValidationError("unknown approval stage", internal.ErrCodeValidationFailed)
	}
	if err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense approval stage recorded",
		"request_id", req.ID,
		"stage", stage,
		"approver_id", approverID,
		"status", req.Status)
	s.publishStage(req, stage)
	if !req.IsPending() {
		s.publishResolved(req)
	}
	return req, nil
}

// RejectStage rejects at either stage, which is terminal for the request.
func (s *Service) RejectStage(stage string, id, approverID int64, dto ResolveExpenseDTO) (*ExpenseRequest, error) {
	if stage != StageManager && stage != StageHR {
		return nil, internal.NewValidationError("unknown approval stage", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.RejectStage(stage, id, approverID, dto.Note, time.Now()); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense request rejected",
		"request_id", req.ID,
		"stage", stage,
		"approver_id", approverID)
	s.publishStage(req, stage)
	s.publishResolved(req)
	return req, nil
}

func (s *Service) publishStage(req *ExpenseRequest, stage string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(context.Background(), events.NewApprovalEvent(events.EventExpenseStageMoved, map[string]interface{}{
		"request_id":     req.ID,
		"employee_id":    req.EmployeeID,
		"stage":          stage,
		"manager_status": req.ManagerStatus,
		"hr_status":      req.HRStatus,
		"status":         req.Status,
	}))
}

func (s *Service) publishResolved(req *ExpenseRequest) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(context.Background(), events.NewApprovalEvent(events.EventExpenseResolved, map[string]interface{}{
		"request_id":   req.ID,
		"employee_id":  req.EmployeeID,
		"status":       req.Status,
		"amount_cents": req.AmountCents,
		"category":     req.Category,
	}))
}
