package expense_test

import (
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal/expense"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Suite")
}

// mockExpenseRepo mirrors the conditional-write contract: a stage decision
// only lands while the aggregate is pending and the sub-state undecided.
type mockExpenseRepo struct {
	requests map[int64]*expense.ExpenseRequest
	nextID   int64
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{requests: make(map[int64]*expense.ExpenseRequest), nextID: 1}
}

func (m *mockExpenseRepo) Create(req *expense.ExpenseRequest) error {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockExpenseRepo) GetByID(id int64) (*expense.ExpenseRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, expense.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockExpenseRepo) List(filter expense.ListFilter) ([]*expense.ExpenseRequest, error) {
	var out []*expense.ExpenseRequest
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

func (m *mockExpenseRepo) ApproveManagerStage(id, approverID int64, note string, resolvedAt time.Time) error {
	req, ok := m.requests[id]
	if !ok {
		return expense.ErrRequestNotFound
	}
	if !req.IsPending() {
		return expense.ErrAlreadyResolved
	}
	if req.ManagerStatus != expense.StatusPending {
		return expense.ErrStageAlreadyResolved
	}
	req.ManagerStatus = expense.StatusApproved
	req.ManagerApproverID = &approverID
	req.ManagerResolvedAt = &resolvedAt
	return nil
}

func (m *mockExpenseRepo) ApproveHRStage(id, approverID int64, note string, resolvedAt time.Time) error {
	req, ok := m.requests[id]
	if !ok {
		return expense.ErrRequestNotFound
	}
	if !req.IsPending() {
		return expense.ErrAlreadyResolved
	}
	if req.HRStatus != expense.StatusPending {
		return expense.ErrStageAlreadyResolved
	}
	if req.ManagerStatus != expense.StatusApproved {
		return expense.ErrManagerStageRequired
	}
	req.HRStatus = expense.StatusApproved
	req.HRApproverID = &approverID
	req.HRResolvedAt = &resolvedAt
	req.Status = expense.StatusApproved
	req.ResolvedAt = &resolvedAt
	return nil
}

func (m *mockExpenseRepo) RejectStage(stage string, id, approverID int64, note string, resolvedAt time.Time) error {
	req, ok := m.requests[id]
	if !ok {
		return expense.ErrRequestNotFound
	}
	if !req.IsPending() {
		return expense.ErrAlreadyResolved
	}
	if stage == expense.StageHR {
		if req.HRStatus != expense.StatusPending {
			return expense.ErrStageAlreadyResolved
		}
		req.HRStatus = expense.StatusRejected
		req.HRApproverID = &approverID
		req.HRResolvedAt = &resolvedAt
	} else {
		if req.ManagerStatus != expense.StatusPending {
			return expense.ErrStageAlreadyResolved
		}
		req.ManagerStatus = expense.StatusRejected
		req.ManagerApproverID = &approverID
		req.ManagerResolvedAt = &resolvedAt
	}
	req.Status = expense.StatusRejected
	req.ResolvedAt = &resolvedAt
	return nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo    *mockExpenseRepo
		service *expense.Service
	)

	BeforeEach(func() {
		repo = newMockExpenseRepo()
		service = expense.NewService(repo, nil, slog.Default())
	})

	submit := func() *expense.ExpenseRequest {
		req, err := service.SubmitExpense(7, expense.SubmitExpenseDTO{
			AmountCents: 12500,
			Category:    "travel",
			Description: "client site visit",
		})
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	Describe("SubmitExpense", func() {
		It("stores a pending request with both stages open", func() {
			req := submit()

			Expect(req.Status).To(Equal(expense.StatusPending))
			Expect(req.ManagerStatus).To(Equal(expense.StatusPending))
			Expect(req.HRStatus).To(Equal(expense.StatusPending))
			Expect(req.Currency).To(Equal("USD"))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.SubmitExpense(7, expense.SubmitExpenseDTO{
				AmountCents: 0,
				Category:    "travel",
				Description: "client site visit",
			})

			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown category", func() {
			_, err := service.SubmitExpense(7, expense.SubmitExpenseDTO{
				AmountCents: 100,
				Category:    "yachts",
				Description: "team offsite",
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("two-stage approval", func() {
		It("stays pending after manager approval alone", func() {
			req := submit()

			after, err := service.ApproveStage(expense.StageManager, req.ID, 30, expense.ResolveExpenseDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(after.ManagerStatus).To(Equal(expense.StatusApproved))
			Expect(after.HRStatus).To(Equal(expense.StatusPending))
			Expect(after.Status).To(Equal(expense.StatusPending))
		})

		It("becomes approved once both stages sign", func() {
			req := submit()
			_, err := service.ApproveStage(expense.StageManager, req.ID, 30, expense.ResolveExpenseDTO{})
			Expect(err).ToNot(HaveOccurred())

			after, err := service.ApproveStage(expense.StageHR, req.ID, 40, expense.ResolveExpenseDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(after.Status).To(Equal(expense.StatusApproved))
			Expect(*after.ManagerApproverID).To(Equal(int64(30)))
			Expect(*after.HRApproverID).To(Equal(int64(40)))
			Expect(after.ResolvedAt).ToNot(BeNil())
		})

		It("refuses HR approval before the manager stage", func() {
			req := submit()

			_, err := service.ApproveStage(expense.StageHR, req.ID, 40, expense.ResolveExpenseDTO{})

			Expect(err).To(MatchError(expense.ErrManagerStageRequired))
		})

		It("is terminally rejected by a manager rejection", func() {
			req := submit()

			after, err := service.RejectStage(expense.StageManager, req.ID, 30, expense.ResolveExpenseDTO{Note: "no receipt"})

			Expect(err).ToNot(HaveOccurred())
			Expect(after.Status).To(Equal(expense.StatusRejected))

			// and HR can no longer act on it
			_, err = service.ApproveStage(expense.StageHR, req.ID, 40, expense.ResolveExpenseDTO{})
			Expect(err).To(MatchError(expense.ErrAlreadyResolved))
		})

		It("is terminally rejected by an HR rejection after manager approval", func() {
			req := submit()
			_, err := service.ApproveStage(expense.StageManager, req.ID, 30, expense.ResolveExpenseDTO{})
			Expect(err).ToNot(HaveOccurred())

			after, err := service.RejectStage(expense.StageHR, req.ID, 40, expense.ResolveExpenseDTO{Note: "over policy"})

			Expect(err).ToNot(HaveOccurred())
			Expect(after.Status).To(Equal(expense.StatusRejected))
			Expect(after.ManagerStatus).To(Equal(expense.StatusApproved))
			Expect(after.HRStatus).To(Equal(expense.StatusRejected))
		})

		It("lets exactly one of two conflicting manager decisions win", func() {
			req := submit()

			_, firstErr := service.ApproveStage(expense.StageManager, req.ID, 30, expense.ResolveExpenseDTO{})
			_, secondErr := service.RejectStage(expense.StageManager, req.ID, 31, expense.ResolveExpenseDTO{})

			Expect(firstErr).ToNot(HaveOccurred())
			Expect(secondErr).To(MatchError(expense.ErrStageAlreadyResolved))

			stored, _ := repo.GetByID(req.ID)
			Expect(stored.ManagerStatus).To(Equal(expense.StatusApproved))
			Expect(*stored.ManagerApproverID).To(Equal(int64(30)))
		})

		It("fails on a missing request", func() {
			_, err := service.ApproveStage(expense.StageManager, 404, 30, expense.ResolveExpenseDTO{})

			Expect(err).To(MatchError(expense.ErrRequestNotFound))
		})
	})
})
