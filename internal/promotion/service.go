package promotion

import (
	"context"
	"log/slog"
	"time"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/core/events"
)

type Repository interface {
	CreateRequest(req *PromotionRequest) error
	GetRequestByID(id int64) (*PromotionRequest, error)
	ListRequests(status string, limit, offset int) ([]*PromotionRequest, error)
	// RejectPending flips a pending request to rejected; zero rows affected
	// means the request was already terminal.
	RejectPending(id int64, approverID int64, note string, resolvedAt time.Time) error
	// ApproveAndApply flips a pending request to approved and, in the same
	// transaction, closes the employee's open history entry, opens the new
	// one and updates the employee's role tag.
	ApproveAndApply(req *PromotionRequest, approverID int64, note string, resolvedAt time.Time) error
	// ApplySuccession closes both parties' open entries and opens a manager
	// entry for the successor, transactionally.
	ApplySuccession(outgoingID, successorID, departmentID int64, effectiveAt time.Time) error
	CurrentRole(employeeID int64) (string, error)
	HistoryFor(employeeID int64) ([]*RoleHistoryEntry, error)
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) SubmitPromotion(dto SubmitPromotionDTO) (*PromotionRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	oldRole, err := s.repo.CurrentRole(dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &PromotionRequest{
		EmployeeID:  dto.EmployeeID,
		OldRole:     oldRole,
		NewRole:     dto.NewRole,
		Reason:      dto.Reason,
		Status:      StatusPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateRequest(req); err != nil {
		s.logger.Error("failed to create promotion request", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	s.logger.Info("promotion request submitted",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"old_role", req.OldRole,
		"new_role", req.NewRole)
	return req, nil
}

func (s *Service) GetRequest(id int64) (*PromotionRequest, error) {
	return s.repo.GetRequestByID(id)
}

func (s *Service) ListRequests(status string, limit, offset int) ([]*PromotionRequest, error) {
	return s.repo.ListRequests(status, limit, offset)
}

// Approve applies a pending promotion. The status flip and the role-history
// rewrite happen in one transaction; a request that is already terminal
// surfaces ErrAlreadyResolved and leaves everything unchanged.
func (s *Service) Approve(ctx context.Context, requestID, approverID int64, note string) (*PromotionRequest, error) {
	req, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	resolvedAt := time.Now()
	if err := s.repo.ApproveAndApply(req, approverID, note, resolvedAt); err != nil {
		return nil, err
	}

	req.Status = StatusApproved
	req.ApproverID = &approverID
	req.ResolvedAt = &resolvedAt
	if note != "" {
		req.Note = &note
	}

	s.logger.Info("promotion approved",
		"request_id", requestID,
		"employee_id", req.EmployeeID,
		"approver_id", approverID,
		"new_role", req.NewRole)

	s.bus.Publish(ctx, events.NewApprovalEvent(events.EventPromotionApplied, map[string]interface{}{
		"request_id":  requestID,
		"employee_id": req.EmployeeID,
		"old_role":    req.OldRole,
		"new_role":    req.NewRole,
	}))

	return req, nil
}

func (s *Service) Reject(ctx context.Context, requestID, approverID int64, note string) (*PromotionRequest, error) {
	req, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	resolvedAt := time.Now()
	if err := s.repo.RejectPending(requestID, approverID, note, resolvedAt); err != nil {
		return nil, err
	}

	req.Status = StatusRejected
	req.ApproverID = &approverID
	req.ResolvedAt = &resolvedAt
	if note != "" {
		req.Note = &note
	}

	s.logger.Info("promotion rejected",
		"request_id", requestID,
		"employee_id", req.EmployeeID,
		"approver_id", approverID)
	return req, nil
}

func (s *Service) HistoryFor(employeeID int64) ([]*RoleHistoryEntry, error) {
	return s.repo.HistoryFor(employeeID)
}

// RecordSuccession is invoked by the succession resolver: the outgoing head's
// open entry is closed and the successor gets an open manager entry.
func (s *Service) RecordSuccession(outgoingHeadID, newHeadID, departmentID int64, effectiveAt time.Time) error {
	if err := s.repo.ApplySuccession(outgoingHeadID, newHeadID, departmentID, effectiveAt); err != nil {
		s.logger.Error("failed to record succession in role history",
			"error", err,
			"outgoing_head_id", outgoingHeadID,
			"new_head_id", newHeadID)
		return err
	}
	return nil
}
