package leave

import (
	"strings"
	"time"

	"github.com/peopleops/hr-platform/internal"
)

const dateLayout = "2006-01-02"

type SubmitLeaveDTO struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	// CertificateID references an uploaded medical certificate document.
	// Required for sick leave longer than three days.
	CertificateID *int64 `json:"certificate_id,omitempty"`
}

// Validate checks the submission and returns the parsed span and day count.
func (d *SubmitLeaveDTO) Validate() (start, end time.Time, days int, err error) {
	if !ValidType(d.Type) {
		return time.Time{}, time.Time{}, 0, ErrUnknownLeaveType
	}
	start, err = time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, internal.NewValidationFieldError("start_date", "must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	end, err = time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, internal.NewValidationFieldError("end_date", "must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	days, err = DaysBetween(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, 0, internal.NewValidationError("end date must not precede start date", internal.ErrCodeInvalidDateRange)
	}
	if strings.TrimSpace(d.Reason) == "" {
		return time.Time{}, time.Time{}, 0, internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeMissingReason)
	}
	if RequiresMedicalCertificate(d.Type, days) && d.CertificateID == nil {
		return time.Time{}, time.Time{}, 0, internal.NewValidationFieldError("certificate_id", "medical certificate required for sick leave over 3 days", internal.ErrCodeValidationFailed)
	}
	return start, end, days, nil
}

type ResolveLeaveDTO struct {
	Note string `json:"note"`
}

type BalanceSummary struct {
	EmployeeID int64          `json:"employee_id"`
	Year       int            `json:"year"`
	Remaining  map[string]int `json:"remaining"`
}
