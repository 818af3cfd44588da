package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/expense"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(req *expense.ExpenseRequest) error {
	return r.db.Create(req).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expense.ExpenseRequest, error) {
	var req expense.ExpenseRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expense.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ExpenseRepository) List(filter expense.ListFilter) ([]*expense.ExpenseRequest, error) {
	var reqs []*expense.ExpenseRequest
	q := r.db.Order("submitted_at DESC").Limit(filter.Limit).Offset(filter.Offset)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

// ApproveManagerStage flips the manager sub-state while both it and the
// aggregate are still pending. The aggregate stays pending until HR signs.
func (r *ExpenseRepository) ApproveManagerStage(id, approverID int64, note string, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"manager_status":      expense.StatusApproved,
		"manager_approver_id": approverID,
		"manager_resolved_at": resolvedAt,
		"updated_at":          time.Now(),
	}
	if note != "" {
		updates["note"] = note
	}

	res := r.db.Model(&expense.ExpenseRequest{}).
		Where("id = ? AND status = ? AND manager_status = ?",
			id, expense.StatusPending, expense.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyStageConflict(id, expense.StageManager)
	}
	return nil
}

// ApproveHRStage requires the manager stage to be approved already and
// finalizes the aggregate status in the same conditional write.
func (r *ExpenseRepository) ApproveHRStage(id, approverID int64, note string, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"hr_status":      expense.StatusApproved,
		"hr_approver_id": approverID,
		"hr_resolved_at": resolvedAt,
		"status":         expense.StatusApproved,
		"resolved_at":    resolvedAt,
		"updated_at":     time.Now(),
	}
	if note != "" {
		updates["note"] = note
	}

	res := r.db.Model(&expense.ExpenseRequest{}).
		Where("id = ? AND status = ? AND hr_status = ? AND manager_status = ?",
			id, expense.StatusPending, expense.StatusPending, expense.StatusApproved).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyStageConflict(id, expense.StageHR)
	}
	return nil
}

// RejectStage short-circuits the whole request at either stage.
func (r *ExpenseRepository) RejectStage(stage string, id, approverID int64, note string, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"status":      expense.StatusRejected,
		"resolved_at": resolvedAt,
		"updated_at":  time.Now(),
	}
	stageCol := "manager_status"
	if stage == expense.StageHR {
		stageCol = "hr_status"
		updates["hr_status"] = expense.StatusRejected
		updates["hr_approver_id"] = approverID
		updates["hr_resolved_at"] = resolvedAt
	} else {
		updates["manager_status"] = expense.StatusRejected
		updates["manager_approver_id"] = approverID
		updates["manager_resolved_at"] = resolvedAt
	}
	if note != "" {
		updates["note"] = note
	}

	res := r.db.Model(&expense.ExpenseRequest{}).
		Where("id = ? AND status = ? AND "+stageCol+" = ?",
			id, expense.StatusPending, expense.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyStageConflict(id, stage)
	}
	return nil
}

// classifyStageConflict turns a zero-row conditional write into the right
// sentinel: missing request, terminal request, out-of-order HR approval, or
// a stage that was decided by a concurrent caller.
func (r *ExpenseRepository) classifyStageConflict(id int64, stage string) error {
	req, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if !req.IsPending() {
		return expense.ErrAlreadyResolved
	}
	if stage == expense.StageHR {
		if req.HRStatus != expense.StatusPending {
			return expense.ErrStageAlreadyResolved
		}
		return expense.ErrManagerStageRequired
	}
	return expense.ErrStageAlreadyResolved
}
