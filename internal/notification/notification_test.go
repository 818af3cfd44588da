package notification_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal/core/events"
	"github.com/peopleops/hr-platform/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type mockNotificationRepo struct {
	items  map[int64]*notification.Notification
	nextID int64
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{items: make(map[int64]*notification.Notification), nextID: 1}
}

func (m *mockNotificationRepo) Create(n *notification.Notification) error {
	n.ID = m.nextID
	m.nextID++
	m.items[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) ListForEmployee(employeeID int64, unreadOnly bool, limit, offset int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range m.items {
		if n.EmployeeID != employeeID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(id, employeeID int64) error {
	n, ok := m.items[id]
	if !ok || n.EmployeeID != employeeID {
		return notification.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(employeeID int64) error {
	for _, n := range m.items {
		if n.EmployeeID == employeeID {
			n.Read = true
		}
	}
	return nil
}

var _ = Describe("Notification EventHandler", func() {
	var (
		repo    *mockNotificationRepo
		bus     *events.EventBus
		service *notification.Service
	)

	BeforeEach(func() {
		repo = newMockNotificationRepo()
		service = notification.NewService(repo, slog.Default())
		bus = events.NewEventBus(slog.Default())
		notification.NewEventHandler(service, slog.Default()).Register(bus)
	})

	It("notifies the employee when their leave request is resolved", func() {
		err := bus.PublishSync(context.Background(), events.NewApprovalEvent(events.EventLeaveResolved, map[string]interface{}{
			"request_id":  int64(1),
			"employee_id": int64(7),
			"type":        "casual",
			"status":      "approved",
		}))

		Expect(err).ToNot(HaveOccurred())
		items, _ := repo.ListForEmployee(7, false, 20, 0)
		Expect(items).To(HaveLen(1))
		Expect(items[0].Type).To(Equal(notification.TypeLeaveResolved))
		Expect(items[0].Message).To(ContainSubstring("casual"))
		Expect(items[0].Message).To(ContainSubstring("approved"))
	})

	It("notifies the employee when their expense request is resolved", func() {
		err := bus.PublishSync(context.Background(), events.NewApprovalEvent(events.EventExpenseResolved, map[string]interface{}{
			"request_id":  int64(2),
			"employee_id": int64(7),
			"category":    "travel",
			"status":      "rejected",
		}))

		Expect(err).ToNot(HaveOccurred())
		items, _ := repo.ListForEmployee(7, false, 20, 0)
		Expect(items).To(HaveLen(1))
		Expect(items[0].Type).To(Equal(notification.TypeExpenseResolved))
	})

	It("notifies the new head when a succession is resolved", func() {
		err := bus.PublishSync(context.Background(), events.NewApprovalEvent(events.EventSuccessionResolved, map[string]interface{}{
			"department_id": int64(3),
			"new_head_id":   int64(11),
			"action":        "promote_deputy",
		}))

		Expect(err).ToNot(HaveOccurred())
		items, _ := repo.ListForEmployee(11, false, 20, 0)
		Expect(items).To(HaveLen(1))
		Expect(items[0].Type).To(Equal(notification.TypeSuccessionResolved))
	})

	It("ignores events with a malformed payload", func() {
		err := bus.PublishSync(context.Background(), events.NewApprovalEvent(events.EventLeaveResolved, map[string]interface{}{
			"employee_id": "not-a-number",
		}))

		Expect(err).ToNot(HaveOccurred())
		Expect(repo.items).To(BeEmpty())
	})
})

var _ = Describe("Notification Service", func() {
	var (
		repo    *mockNotificationRepo
		service *notification.Service
	)

	BeforeEach(func() {
		repo = newMockNotificationRepo()
		service = notification.NewService(repo, slog.Default())
	})

	It("scopes MarkRead to the owning employee", func() {
		Expect(service.Notify(7, notification.TypeLeaveResolved, "hello")).To(Succeed())

		err := service.MarkRead(1, 8)

		Expect(err).To(MatchError(notification.ErrNotificationNotFound))
		Expect(repo.items[1].Read).To(BeFalse())
	})

	It("marks everything read for the employee", func() {
		Expect(service.Notify(7, notification.TypeLeaveResolved, "one")).To(Succeed())
		Expect(service.Notify(7, notification.TypeExpenseResolved, "two")).To(Succeed())

		Expect(service.MarkAllRead(7)).To(Succeed())

		unread, _ := service.ListForEmployee(7, true, 20, 0)
		Expect(unread).To(BeEmpty())
	})
})
