package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	Kind       string  `json:"kind" validate:"required,oneof=leave permission sick"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=500"`

	date time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Date != "" {
		if d, ok := validator.IsValidDate(r.Date); ok {
			r.date = d
		} else {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

// ParsedDate is the requested date, available after Validate succeeds.
func (r *SubmitLeaveRequest) ParsedDate() time.Time {
	return r.date
}

// DecisionRequest carries the optional note of any workflow transition.
type DecisionRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *DecisionRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	return errs.Err()
}

type LeaveRequestFilter struct {
	EmployeeID *string
	Status     *string
	Kind       *string
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !LeaveRequestStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: submitted, approved, rejected, cancellation_requested, cancelled")
	}
	if f.Kind != nil && !Kind(*f.Kind).IsValid() {
		errs.Add("kind", "kind must be one of: leave, permission, sick")
	}
	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.Err()
}

type LeaveRequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	Kind         string  `json:"kind"`
	Status       string  `json:"status"`
	Note         *string `json:"note,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	DecisionNote *string `json:"decision_note,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         r.Date.Format("2006-01-02"),
		Kind:         string(r.Kind),
		Status:       string(r.Status),
		Note:         r.Note,
		ApprovedBy:   r.ApprovedBy,
		DecisionNote: r.DecisionNote,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}
