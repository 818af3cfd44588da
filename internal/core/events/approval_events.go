package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventLeaveResolved      = "leave.request.resolved"
	EventExpenseStageMoved  = "expense.request.stage_moved"
	EventExpenseResolved    = "expense.request.resolved"
	EventPromotionApplied   = "promotion.applied"
	EventSuccessionResolved = "department.succession_resolved"
)

// NewApprovalEvent builds the common event shape published by the request
// lifecycle services.
func NewApprovalEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
