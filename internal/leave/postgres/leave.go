package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/peopleops/hr-platform/internal/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(req *leave.LeaveRequest) error {
	return r.db.Create(req).Error
}

func (r *LeaveRepository) GetByID(id int64) (*leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *LeaveRepository) List(filter leave.ListFilter) ([]*leave.LeaveRequest, error) {
	var reqs []*leave.LeaveRequest
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

func (r *LeaveRepository) RejectPending(id, approverID int64, note string, resolvedAt time.Time) (*leave.LeaveRequest, error) {
	if err := r.resolvePending(r.db, id, leave.StatusRejected, approverID, note, resolvedAt); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// ApproveAndDeduct flips the request to approved and decrements the matching
// balance row inside one transaction. The flip is conditional on the row
// still being pending, and the decrement is conditional on the balance
// covering the span, so a losing concurrent approval or an overdraw rolls
// the whole thing back.
func (r *LeaveRepository) ApproveAndDeduct(id, approverID int64, note string, resolvedAt time.Time) (*leave.LeaveRequest, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var req leave.LeaveRequest
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leave.ErrRequestNotFound
			}
			return err
		}

		if err := r.resolvePending(tx, id, leave.StatusApproved, approverID, note, resolvedAt); err != nil {
			return err
		}
		return deductBalance(tx, req.EmployeeID, req.Type, req.StartDate.Year(), req.Days)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// EnsureDefaults inserts the default-initialized ledger rows for every leave
// type, skipping rows that already exist.
func (r *LeaveRepository) EnsureDefaults(employeeID int64, year int) error {
	for _, leaveType := range []string{leave.TypeAnnual, leave.TypeCasual, leave.TypeSick} {
		if err := seedBalance(r.db, employeeID, leaveType, year); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaveRepository) BalancesFor(employeeID int64, year int) ([]leave.LeaveBalance, error) {
	var balances []leave.LeaveBalance
	err := r.db.Where("employee_id = ? AND year = ?", employeeID, year).Find(&balances).Error
	return balances, err
}

// resolvePending only lands while the row is still pending; a zero row count
// on an existing request means someone else resolved it first.
func (r *LeaveRepository) resolvePending(tx *gorm.DB, id int64, status string, approverID int64, note string, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"status":      status,
		"approver_id": approverID,
		"resolved_at": resolvedAt,
		"updated_at":  time.Now(),
	}
	if note != "" {
		updates["note"] = note
	}

	res := tx.Model(&leave.LeaveRequest{}).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&leave.LeaveRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return leave.ErrRequestNotFound
		}
		return leave.ErrAlreadyResolved
	}
	return nil
}

// seedBalance inserts the default-initialized ledger row if it does not exist
// yet; an existing row wins.
func seedBalance(tx *gorm.DB, employeeID int64, leaveType string, year int) error {
	allowance, err := leave.DefaultAllowance(leaveType)
	if err != nil {
		return err
	}

	seed := leave.LeaveBalance{
		EmployeeID: employeeID,
		Type:       leaveType,
		Year:       year,
		Remaining:  allowance,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type"}, {Name: "year"}},
		DoNothing: true,
	}).Create(&seed).Error
}

// deductBalance seeds the ledger row with the annual default if it does not
// exist yet, then decrements it guarded by a floor check.
func deductBalance(tx *gorm.DB, employeeID int64, leaveType string, year, days int) error {
	if err := seedBalance(tx, employeeID, leaveType, year); err != nil {
		return err
	}

	res := tx.Model(&leave.LeaveBalance{}).
		Where("employee_id = ? AND leave_type = ? AND year = ? AND remaining >= ?",
			employeeID, leaveType, year, days).
		Updates(map[string]interface{}{
			"remaining":  gorm.Expr("remaining - ?", days),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leave.ErrInsufficientBalance
	}
	return nil
}
