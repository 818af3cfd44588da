package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/core/events"
)

// Repository is the persistence contract for leave requests and balances.
// ApproveAndDeduct must flip the request to approved and decrement the
// balance in a single transaction; if either side fails the other must not
// stick.
type Repository interface {
	Create(req *LeaveRequest) error
	GetByID(id int64) (*LeaveRequest, error)
	List(filter ListFilter) ([]*LeaveRequest, error)
	RejectPending(id, approverID int64, note string, resolvedAt time.Time) (*LeaveRequest, error)
	ApproveAndDeduct(id, approverID int64, note string, resolvedAt time.Time) (*LeaveRequest, error)
	// EnsureDefaults materializes the ledger rows for every leave type with
	// the annual defaults, leaving existing rows untouched.
	EnsureDefaults(employeeID int64, year int) error
	BalancesFor(employeeID int64, year int) ([]LeaveBalance, error)
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

// SubmitLeave validates the request and stores it as pending. The day count
// is fixed at submission time; balances are only touched on approval.
func (s *Service) SubmitLeave(employeeID int64, dto SubmitLeaveDTO) (*LeaveRequest, error) {
	start, end, days, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	req := &LeaveRequest{
		EmployeeID:  employeeID,
		Type:        dto.Type,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      dto.Reason,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create leave request", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to create leave request", err)
	}

	s.logger.Info("leave request submitted",
		"request_id", req.ID,
		"employee_id", employeeID,
		"type", req.Type,
		"days", days)
	return req, nil
}

func (s *Service) GetRequest(id int64) (*LeaveRequest, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListRequests(filter ListFilter) ([]*LeaveRequest, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(filter)
}

// Approve resolves a pending request and deducts the span from the
// employee's balance. Both writes happen in one repository transaction, so a
// request that would overdraw the balance is refused with the request still
// pending, and a concurrent second resolution loses with ErrAlreadyResolved.
func (s *Service) Approve(id, approverID int64, dto ResolveLeaveDTO) (*LeaveRequest, error) {
	req, err := s.repo.ApproveAndDeduct(id, approverID, dto.Note, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave request approved",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"approver_id", approverID,
		"days", req.Days)
	s.publishResolved(req)
	return req, nil
}

// Reject resolves a pending request without touching balances.
func (s *Service) Reject(id, approverID int64, dto ResolveLeaveDTO) (*LeaveRequest, error) {
	req, err := s.repo.RejectPending(id, approverID, dto.Note, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave request rejected",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"approver_id", approverID)
	s.publishResolved(req)
	return req, nil
}

// GetBalances returns the remaining allowance per leave type for the given
// year. The first access creates the ledger rows with the annual defaults.
func (s *Service) GetBalances(employeeID int64, year int) (*BalanceSummary, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	if err := s.repo.EnsureDefaults(employeeID, year); err != nil {
		return nil, internal.NewInternalError("failed to seed leave balances", err)
	}
	balances, err := s.repo.BalancesFor(employeeID, year)
	if err != nil {
		return nil, internal.NewInternalError("failed to load leave balances", err)
	}

	summary := &BalanceSummary{
		EmployeeID: employeeID,
		Year:       year,
		Remaining: map[string]int{
			TypeAnnual: DefaultAnnualDays,
			TypeCasual: DefaultCasualDays,
			TypeSick:   DefaultSickDays,
		},
	}
	for _, b := range balances {
		summary.Remaining[b.Type] = b.Remaining
	}
	return summary, nil
}

func (s *Service) publishResolved(req *LeaveRequest) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(context.Background(), events.NewApprovalEvent(events.EventLeaveResolved, map[string]interface{}{
		"request_id":  req.ID,
		"employee_id": req.EmployeeID,
		"type":        req.Type,
		"status":      req.Status,
		"days":        req.Days,
	}))
}
