package postgres

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/promotion"
	"github.com/peopleops/hr-platform/internal/roles"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) CreateRequest(req *promotion.PromotionRequest) error {
	return r.db.Create(req).Error
}

func (r *PromotionRepository) GetRequestByID(id int64) (*promotion.PromotionRequest, error) {
	var req promotion.PromotionRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PromotionRepository) ListRequests(status string, limit, offset int) ([]*promotion.PromotionRequest, error) {
	var reqs []*promotion.PromotionRequest
	q := r.db.Order("submitted_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *PromotionRepository) RejectPending(id int64, approverID int64, note string, resolvedAt time.Time) error {
	return r.resolvePending(r.db, id, promotion.StatusRejected, approverID, note, resolvedAt)
}

// resolvePending is the conditional write closing the double-approval race:
// the status flip only lands if the row is still pending.
func (r *PromotionRepository) resolvePending(tx *gorm.DB, id int64, status string, approverID int64, note string, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"status":      status,
		"approver_id": approverID,
		"resolved_at": resolvedAt,
		"updated_at":  time.Now(),
	}
	if note != "" {
		updates["note"] = note
	}

	res := tx.Model(&promotion.PromotionRequest{}).
		Where("id = ? AND status = ?", id, promotion.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return promotion.ErrAlreadyResolved
	}
	return nil
}

func (r *PromotionRepository) ApproveAndApply(req *promotion.PromotionRequest, approverID int64, note string, resolvedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.resolvePending(tx, req.ID, promotion.StatusApproved, approverID, note, resolvedAt); err != nil {
			return err
		}
		return applyRoleChange(tx, req.EmployeeID, req.NewRole, nil, resolvedAt)
	})
}

func (r *PromotionRepository) ApplySuccession(outgoingID, successorID, departmentID int64, effectiveAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := closeOpenEntry(tx, outgoingID, effectiveAt); err != nil {
			return err
		}
		return applyRoleChange(tx, successorID, roles.RoleManager, &departmentID, effectiveAt)
	})
}

// applyRoleChange closes the employee's open history entry, opens a new one
// and updates the role tag on the employee record, keeping the history
// non-overlapping with at most one open entry.
func applyRoleChange(tx *gorm.DB, employeeID int64, newRole string, departmentID *int64, effectiveAt time.Time) error {
	if err := closeOpenEntry(tx, employeeID, effectiveAt); err != nil {
		return err
	}

	entry := &promotion.RoleHistoryEntry{
		EmployeeID:    employeeID,
		Role:          newRole,
		DepartmentID:  departmentID,
		EffectiveFrom: effectiveAt,
	}
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	return tx.Exec(`UPDATE employees SET role = ?, updated_at = ? WHERE id = ?`,
		newRole, time.Now(), employeeID).Error
}

func closeOpenEntry(tx *gorm.DB, employeeID int64, at time.Time) error {
	return tx.Model(&promotion.RoleHistoryEntry{}).
		Where("employee_id = ? AND effective_to IS NULL", employeeID).
		Update("effective_to", at).Error
}

func (r *PromotionRepository) CurrentRole(employeeID int64) (string, error) {
	var role string
	row := r.db.Raw(`SELECT role FROM employees WHERE id = ?`, employeeID).Row()
	if err := row.Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
		}
		return "", err
	}
	return role, nil
}

func (r *PromotionRepository) HistoryFor(employeeID int64) ([]*promotion.RoleHistoryEntry, error) {
	var entries []*promotion.RoleHistoryEntry
	err := r.db.
		Where("employee_id = ?", employeeID).
		Order("effective_from DESC").
		Find(&entries).Error
	return entries, err
}
