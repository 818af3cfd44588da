package promotion_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal/core/events"
	"github.com/peopleops/hr-platform/internal/promotion"
	"github.com/peopleops/hr-platform/internal/roles"
)

func TestPromotion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Promotion Suite")
}

// mockPromotionRepo keeps requests and role history in memory and mirrors the
// transactional semantics: approval flips the request and rewrites the
// employee's history as one step.
type mockPromotionRepo struct {
	requests map[int64]*promotion.PromotionRequest
	history  []*promotion.RoleHistoryEntry
	roles    map[int64]string
	nextID   int64
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{
		requests: make(map[int64]*promotion.PromotionRequest),
		roles:    make(map[int64]string),
		nextID:   1,
	}
}

func (m *mockPromotionRepo) CreateRequest(req *promotion.PromotionRequest) error {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockPromotionRepo) GetRequestByID(id int64) (*promotion.PromotionRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, promotion.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockPromotionRepo) ListRequests(status string, limit, offset int) ([]*promotion.PromotionRequest, error) {
	var out []*promotion.PromotionRequest
	for _, req := range m.requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *mockPromotionRepo) RejectPending(id int64, approverID int64, note string, resolvedAt time.Time) error {
	req, ok := m.requests[id]
	if !ok {
		return promotion.ErrRequestNotFound
	}
	if req.Status != promotion.StatusPending {
		return promotion.ErrAlreadyResolved
	}
	req.Status = promotion.StatusRejected
	req.ApproverID = &approverID
	req.ResolvedAt = &resolvedAt
	return nil
}

func (m *mockPromotionRepo) ApproveAndApply(req *promotion.PromotionRequest, approverID int64, note string, resolvedAt time.Time) error {
	stored, ok := m.requests[req.ID]
	if !ok {
		return promotion.ErrRequestNotFound
	}
	if stored.Status != promotion.StatusPending {
		return promotion.ErrAlreadyResolved
	}
	stored.Status = promotion.StatusApproved
	stored.ApproverID = &approverID
	stored.ResolvedAt = &resolvedAt

	m.closeOpenEntry(stored.EmployeeID, resolvedAt)
	m.history = append(m.history, &promotion.RoleHistoryEntry{
		EmployeeID:    stored.EmployeeID,
		Role:          stored.NewRole,
		EffectiveFrom: resolvedAt,
	})
	m.roles[stored.EmployeeID] = stored.NewRole
	return nil
}

func (m *mockPromotionRepo) ApplySuccession(outgoingID, successorID, departmentID int64, effectiveAt time.Time) error {
	m.closeOpenEntry(outgoingID, effectiveAt)
	m.closeOpenEntry(successorID, effectiveAt)
	m.history = append(m.history, &promotion.RoleHistoryEntry{
		EmployeeID:    successorID,
		Role:          roles.RoleManager,
		DepartmentID:  &departmentID,
		EffectiveFrom: effectiveAt,
	})
	m.roles[successorID] = roles.RoleManager
	return nil
}

func (m *mockPromotionRepo) CurrentRole(employeeID int64) (string, error) {
	role, ok := m.roles[employeeID]
	if !ok {
		return roles.RoleEmployee, nil
	}
	return role, nil
}

func (m *mockPromotionRepo) HistoryFor(employeeID int64) ([]*promotion.RoleHistoryEntry, error) {
	var out []*promotion.RoleHistoryEntry
	for _, entry := range m.history {
		if entry.EmployeeID == employeeID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockPromotionRepo) closeOpenEntry(employeeID int64, at time.Time) {
	for _, entry := range m.history {
		if entry.EmployeeID == employeeID && entry.Open() {
			closed := at
			entry.EffectiveTo = &closed
		}
	}
}

func (m *mockPromotionRepo) openEntries(employeeID int64) []*promotion.RoleHistoryEntry {
	var out []*promotion.RoleHistoryEntry
	for _, entry := range m.history {
		if entry.EmployeeID == employeeID && entry.Open() {
			out = append(out, entry)
		}
	}
	return out
}

var _ = Describe("Promotion Service", func() {
	var (
		repo    *mockPromotionRepo
		service *promotion.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockPromotionRepo()
		service = promotion.NewService(repo, events.NewEventBus(slog.Default()), slog.Default())
		ctx = context.Background()
	})

	submit := func(employeeID int64, newRole string) *promotion.PromotionRequest {
		req, err := service.SubmitPromotion(promotion.SubmitPromotionDTO{
			EmployeeID: employeeID,
			NewRole:    newRole,
			Reason:     "led the platform migration",
		})
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	Describe("SubmitPromotion", func() {
		It("captures the employee's current role as the old role", func() {
			repo.roles[7] = roles.RoleEmployee

			req := submit(7, roles.RoleManager)

			Expect(req.Status).To(Equal(promotion.StatusPending))
			Expect(req.OldRole).To(Equal(roles.RoleEmployee))
			Expect(req.NewRole).To(Equal(roles.RoleManager))
		})

		It("rejects an unknown target role", func() {
			_, err := service.SubmitPromotion(promotion.SubmitPromotionDTO{
				EmployeeID: 7,
				NewRole:    "overlord",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Approve", func() {
		It("flips the request and rewrites the role history", func() {
			req := submit(7, roles.RoleManager)

			resolved, err := service.Approve(ctx, req.ID, 99, "well earned")

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(promotion.StatusApproved))
			Expect(*resolved.ApproverID).To(Equal(int64(99)))

			role, _ := repo.CurrentRole(7)
			Expect(role).To(Equal(roles.RoleManager))

			open := repo.openEntries(7)
			Expect(open).To(HaveLen(1))
			Expect(open[0].Role).To(Equal(roles.RoleManager))
		})

		It("fails on an already rejected request without applying anything", func() {
			req := submit(7, roles.RoleManager)
			_, err := service.Reject(ctx, req.ID, 99, "not yet")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(ctx, req.ID, 42, "")

			Expect(err).To(MatchError(promotion.ErrAlreadyResolved))
			role, _ := repo.CurrentRole(7)
			Expect(role).To(Equal(roles.RoleEmployee))
		})

		It("fails on a missing request", func() {
			_, err := service.Approve(ctx, 404, 99, "")
			Expect(err).To(MatchError(promotion.ErrRequestNotFound))
		})
	})

	Describe("Reject", func() {
		It("resolves the request and leaves the role untouched", func() {
			repo.roles[7] = roles.RoleEmployee
			req := submit(7, roles.RoleManager)

			resolved, err := service.Reject(ctx, req.ID, 99, "headcount freeze")

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(promotion.StatusRejected))
			role, _ := repo.CurrentRole(7)
			Expect(role).To(Equal(roles.RoleEmployee))
		})
	})

	Describe("RecordSuccession", func() {
		It("closes the outgoing head's entry and opens one for the successor", func() {
			now := time.Now()
			repo.history = append(repo.history, &promotion.RoleHistoryEntry{
				EmployeeID:    1,
				Role:          roles.RoleManager,
				EffectiveFrom: now.AddDate(-2, 0, 0),
			})

			err := service.RecordSuccession(1, 2, 10, now)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.openEntries(1)).To(BeEmpty())

			open := repo.openEntries(2)
			Expect(open).To(HaveLen(1))
			Expect(open[0].Role).To(Equal(roles.RoleManager))
			Expect(*open[0].DepartmentID).To(Equal(int64(10)))
		})
	})
})
