package leave_test

import (
	"fmt"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal/leave"
)

// mockLeaveRepo keeps requests and balances in memory and mirrors the
// transactional repository semantics: an approval that would overdraw the
// balance leaves the request pending.
type mockLeaveRepo struct {
	requests map[int64]*leave.LeaveRequest
	balances map[string]int
	nextID   int64
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{
		requests: make(map[int64]*leave.LeaveRequest),
		balances: make(map[string]int),
		nextID:   1,
	}
}

func balanceKey(employeeID int64, leaveType string, year int) string {
	return fmt.Sprintf("%d/%s/%d", employeeID, leaveType, year)
}

func (m *mockLeaveRepo) setBalance(employeeID int64, leaveType string, year, remaining int) {
	m.balances[balanceKey(employeeID, leaveType, year)] = remaining
}

func (m *mockLeaveRepo) Create(req *leave.LeaveRequest) error {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockLeaveRepo) GetByID(id int64) (*leave.LeaveRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockLeaveRepo) List(filter leave.ListFilter) ([]*leave.LeaveRequest, error) {
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *mockLeaveRepo) RejectPending(id, approverID int64, note string, resolvedAt time.Time) (*leave.LeaveRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return nil, leave.ErrAlreadyResolved
	}
	req.Status = leave.StatusRejected
	req.ApproverID = &approverID
	req.ResolvedAt = &resolvedAt
	return req, nil
}

func (m *mockLeaveRepo) ApproveAndDeduct(id, approverID int64, note string, resolvedAt time.Time) (*leave.LeaveRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return nil, leave.ErrAlreadyResolved
	}

	key := balanceKey(req.EmployeeID, req.Type, req.StartDate.Year())
	remaining, seeded := m.balances[key]
	if !seeded {
		remaining, _ = leave.DefaultAllowance(req.Type)
	}
	if remaining < req.Days {
		return nil, leave.ErrInsufficientBalance
	}
	m.balances[key] = remaining - req.Days

	req.Status = leave.StatusApproved
	req.ApproverID = &approverID
	req.ResolvedAt = &resolvedAt
	return req, nil
}

func (m *mockLeaveRepo) EnsureDefaults(employeeID int64, year int) error {
	for _, t := range []string{leave.TypeAnnual, leave.TypeCasual, leave.TypeSick} {
		key := balanceKey(employeeID, t, year)
		if _, ok := m.balances[key]; !ok {
			m.balances[key], _ = leave.DefaultAllowance(t)
		}
	}
	return nil
}

func (m *mockLeaveRepo) BalancesFor(employeeID int64, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, t := range []string{leave.TypeAnnual, leave.TypeCasual, leave.TypeSick} {
		if remaining, ok := m.balances[balanceKey(employeeID, t, year)]; ok {
			out = append(out, leave.LeaveBalance{
				EmployeeID: employeeID,
				Type:       t,
				Year:       year,
				Remaining:  remaining,
			})
		}
	}
	return out, nil
}

var _ = Describe("Leave Service", func() {
	var (
		repo    *mockLeaveRepo
		service *leave.Service
	)

	BeforeEach(func() {
		repo = newMockLeaveRepo()
		service = leave.NewService(repo, nil, slog.Default())
	})

	submit := func(dto leave.SubmitLeaveDTO) *leave.LeaveRequest {
		req, err := service.SubmitLeave(7, dto)
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	Describe("SubmitLeave", func() {
		It("stores a pending request with the inclusive day count", func() {
			// Given a three-day casual request
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})

			// Then it is pending and spans three days
			Expect(req.Status).To(Equal(leave.StatusPending))
			Expect(req.Days).To(Equal(3))
		})

		It("does not touch the balance on submission", func() {
			repo.setBalance(7, leave.TypeCasual, 2026, 5)

			submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})

			Expect(repo.balances[balanceKey(7, leave.TypeCasual, 2026)]).To(Equal(5))
		})
	})

	Describe("Approve", func() {
		It("deducts the span from the balance", func() {
			// Given a casual balance of 5 days and a pending 3-day request
			repo.setBalance(7, leave.TypeCasual, 2026, 5)
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})

			// When the request is approved
			resolved, err := service.Approve(req.ID, 99, leave.ResolveLeaveDTO{})

			// Then the request is approved and the balance drops to 2
			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(leave.StatusApproved))
			Expect(*resolved.ApproverID).To(Equal(int64(99)))
			Expect(repo.balances[balanceKey(7, leave.TypeCasual, 2026)]).To(Equal(2))
		})

		It("refuses an approval that would overdraw the balance", func() {
			// Given a balance of 2 days and a pending 3-day request
			repo.setBalance(7, leave.TypeCasual, 2026, 2)
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})

			_, err := service.Approve(req.ID, 99, leave.ResolveLeaveDTO{})

			// Then the approval fails, the request stays pending and the
			// balance is untouched
			Expect(err).To(MatchError(leave.ErrInsufficientBalance))
			stored, _ := repo.GetByID(req.ID)
			Expect(stored.Status).To(Equal(leave.StatusPending))
			Expect(repo.balances[balanceKey(7, leave.TypeCasual, 2026)]).To(Equal(2))
		})

		It("seeds the ledger from the annual default on first use", func() {
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeAnnual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-10",
				Reason:    "spring break",
			})

			_, err := service.Approve(req.ID, 99, leave.ResolveLeaveDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.balances[balanceKey(7, leave.TypeAnnual, 2026)]).To(Equal(20))
		})

		It("fails on an already resolved request without changing it", func() {
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})
			_, err := service.Reject(req.ID, 99, leave.ResolveLeaveDTO{Note: "coverage gap"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(req.ID, 42, leave.ResolveLeaveDTO{})

			Expect(err).To(MatchError(leave.ErrAlreadyResolved))
			stored, _ := repo.GetByID(req.ID)
			Expect(stored.Status).To(Equal(leave.StatusRejected))
			Expect(*stored.ApproverID).To(Equal(int64(99)))
		})

		It("fails on a missing request", func() {
			_, err := service.Approve(404, 99, leave.ResolveLeaveDTO{})

			Expect(err).To(MatchError(leave.ErrRequestNotFound))
		})
	})

	Describe("Reject", func() {
		It("resolves the request without touching the balance", func() {
			repo.setBalance(7, leave.TypeCasual, 2026, 5)
			req := submit(leave.SubmitLeaveDTO{
				Type:      leave.TypeCasual,
				StartDate: "2026-04-06",
				EndDate:   "2026-04-08",
				Reason:    "moving house",
			})

			resolved, err := service.Reject(req.ID, 99, leave.ResolveLeaveDTO{Note: "busy period"})

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(leave.StatusRejected))
			Expect(repo.balances[balanceKey(7, leave.TypeCasual, 2026)]).To(Equal(5))
		})
	})

	Describe("GetBalances", func() {
		It("reports defaults for types with no ledger row", func() {
			summary, err := service.GetBalances(7, 2026)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.Remaining[leave.TypeAnnual]).To(Equal(25))
			Expect(summary.Remaining[leave.TypeCasual]).To(Equal(25))
			Expect(summary.Remaining[leave.TypeSick]).To(Equal(365))
		})

		It("overlays stored rows on the defaults", func() {
			repo.setBalance(7, leave.TypeCasual, 2026, 11)

			summary, err := service.GetBalances(7, 2026)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.Remaining[leave.TypeCasual]).To(Equal(11))
			Expect(summary.Remaining[leave.TypeAnnual]).To(Equal(25))
		})

		It("materializes the ledger rows on first access", func() {
			_, err := service.GetBalances(7, 2026)

			Expect(err).ToNot(HaveOccurred())
			for _, t := range []string{leave.TypeAnnual, leave.TypeCasual, leave.TypeSick} {
				Expect(repo.balances).To(HaveKey(balanceKey(7, t, 2026)))
			}
		})

		It("leaves an already decremented row untouched on read", func() {
			repo.setBalance(7, leave.TypeCasual, 2026, 11)

			_, err := service.GetBalances(7, 2026)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.balances[balanceKey(7, leave.TypeCasual, 2026)]).To(Equal(11))
		})
	})
})
