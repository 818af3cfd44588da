package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peopleops/hr-platform/internal/core/events"
)

// EventHandler turns request-lifecycle events into in-app notifications for
// the affected employee.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// Register subscribes to every event that should produce a notification.
func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventLeaveResolved, h.onLeaveResolved)
	bus.Subscribe(events.EventExpenseResolved, h.onExpenseResolved)
	bus.Subscribe(events.EventPromotionApplied, h.onPromotionApplied)
	bus.Subscribe(events.EventSuccessionResolved, h.onSuccessionResolved)
}

func (h *EventHandler) onLeaveResolved(ctx context.Context, event events.Event) error {
	data, ok := eventData(event)
	if !ok {
		return nil
	}
	employeeID, ok := asInt64(data["employee_id"])
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("Your %v leave request was %v", data["type"], data["status"])
	return h.service.Notify(employeeID, TypeLeaveResolved, msg)
}

func (h *EventHandler) onExpenseResolved(ctx context.Context, event events.Event) error {
	data, ok := eventData(event)
	if !ok {
		return nil
	}
	employeeID, ok := asInt64(data["employee_id"])
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("Your %v expense request was %v", data["category"], data["status"])
	return h.service.Notify(employeeID, TypeExpenseResolved, msg)
}

func (h *EventHandler) onPromotionApplied(ctx context.Context, event events.Event) error {
	data, ok := eventData(event)
	if !ok {
		return nil
	}
	employeeID, ok := asInt64(data["employee_id"])
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("Your role changed to %v", data["new_role"])
	return h.service.Notify(employeeID, TypePromotionApplied, msg)
}

func (h *EventHandler) onSuccessionResolved(ctx context.Context, event events.Event) error {
	data, ok := eventData(event)
	if !ok {
		return nil
	}
	newHeadID, ok := asInt64(data["new_head_id"])
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("You are now head of department %v", data["department_id"])
	return h.service.Notify(newHeadID, TypeSuccessionResolved, msg)
}

func eventData(event events.Event) (map[string]interface{}, bool) {
	data, ok := event.Payload().(map[string]interface{})
	return data, ok
}

// asInt64 tolerates the types a payload value may arrive as after an
// in-process hop or a JSON round trip.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
