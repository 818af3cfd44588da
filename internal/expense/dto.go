package expense

import (
	"strings"

	"github.com/peopleops/hr-platform/internal"
)

type SubmitExpenseDTO struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ReceiptID   *int64 `json:"receipt_id,omitempty"`
}

func (d *SubmitExpenseDTO) Validate() error {
	if d.AmountCents <= 0 {
		return internal.NewValidationFieldError("amount_cents", "amount must be positive", internal.ErrCodeInvalidAmount)
	}
	if !ValidCategory(d.Category) {
		return internal.NewValidationFieldError("category", "unknown expense category", internal.ErrCodeInvalidCategory)
	}
	if strings.TrimSpace(d.Description) == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeMissingReason)
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	return nil
}

type ResolveExpenseDTO struct {
	Note string `json:"note"`
}
