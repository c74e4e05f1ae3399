package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========================================
// WORK SESSION DTOs
// ========================================

type CreateWorkSessionRequest struct {
	Category   string          `json:"category" validate:"required,oneof=coding non_coding"`
	DayOfWeek  *int            `json:"day_of_week" validate:"required,gte=0,lte=6"`
	SlotNumber int             `json:"slot_number" validate:"required,gte=1"`
	StartTime  string          `json:"start_time" validate:"required"`
	EndTime    string          `json:"end_time" validate:"required"`
	Rate       decimal.Decimal `json:"rate"`
	Active     *bool           `json:"active,omitempty"`
}

func (r *CreateWorkSessionRequest) Validate() error {
	errs := validator.Struct(r)
	checkTimes(&errs, &r.StartTime, &r.EndTime)
	if r.Rate.IsNegative() {
		errs.Add("rate", "rate must not be negative")
	}
	return errs.Err()
}

type UpdateWorkSessionRequest struct {
	ID        string           `json:"-"`
	StartTime *string          `json:"start_time,omitempty"`
	EndTime   *string          `json:"end_time,omitempty"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
	Active    *bool            `json:"active,omitempty"`
}

func (r *UpdateWorkSessionRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	checkTimes(&errs, r.StartTime, r.EndTime)
	if r.Rate != nil && r.Rate.IsNegative() {
		errs.Add("rate", "rate must not be negative")
	}
	return errs.Err()
}

func checkTimes(errs *validator.ValidationErrors, start, end *string) {
	var s, e time.Time
	var sok, eok bool
	if start != nil && *start != "" {
		if s, sok = validator.IsValidClock(*start); !sok {
			errs.Add("start_time", "start_time must be in HH:MM format")
		}
	}
	if end != nil && *end != "" {
		if e, eok = validator.IsValidClock(*end); !eok {
			errs.Add("end_time", "end_time must be in HH:MM format")
		}
	}
	if sok && eok && !e.After(s) {
		errs.Add("end_time", "end_time must be after start_time")
	}
}

type WorkSessionFilter struct {
	Category  *string
	DayOfWeek *int
	Active    *bool
}

type WorkSessionResponse struct {
	ID         string          `json:"id"`
	Category   string          `json:"category"`
	DayOfWeek  int             `json:"day_of_week"`
	DayName    string          `json:"day_name"`
	SlotNumber int             `json:"slot_number"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Rate       decimal.Decimal `json:"rate"`
	Active     bool            `json:"active"`
}

func ToWorkSessionResponse(w WorkSession) WorkSessionResponse {
	return WorkSessionResponse{
		ID:         w.ID,
		Category:   string(w.Category),
		DayOfWeek:  int(w.DayOfWeek),
		DayName:    w.DayOfWeek.String(),
		SlotNumber: w.SlotNumber,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		Rate:       w.Rate,
		Active:     w.Active,
	}
}

// ========================================
// REALIZATION DTOs
// ========================================

type SubmitRealizationRequest struct {
	EmployeeID    string  `json:"employee_id" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	WorkSessionID string  `json:"work_session_id" validate:"required"`
	Source        string  `json:"source" validate:"required,oneof=scheduled manual"`
	Note          *string `json:"note,omitempty" validate:"omitempty,max=500"`

	date time.Time
}

func (r *SubmitRealizationRequest) Validate() error {
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

// ParsedDate is the claimed date, available after Validate succeeds.
func (r *SubmitRealizationRequest) ParsedDate() time.Time {
	return r.date
}

type ReviewRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *ReviewRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	return errs.Err()
}

type RealizationFilter struct {
	EmployeeID    *string
	WorkSessionID *string
	Status        *string
	DateFrom      *string
	DateTo        *string
	Page          int
	Limit         int
}

func (f *RealizationFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !RealizationStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: submitted, approved, rejected")
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

type RealizationResponse struct {
	ID            string               `json:"id"`
	EmployeeID    string               `json:"employee_id"`
	Date          string               `json:"date"`
	WorkSessionID string               `json:"work_session_id"`
	Status        string               `json:"status"`
	Source        string               `json:"source"`
	Note          *string              `json:"note,omitempty"`
	ApprovedBy    *string              `json:"approved_by,omitempty"`
	ReviewNote    *string              `json:"review_note,omitempty"`
	ReviewedAt    *string              `json:"reviewed_at,omitempty"`
	WorkSession   *WorkSessionResponse `json:"work_session,omitempty"`
	CreatedAt     string               `json:"created_at"`
}

type ListRealizationResponse struct {
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
	Realizations []RealizationResponse `json:"realizations"`
}

func ToRealizationResponse(r SessionRealization) RealizationResponse {
	resp := RealizationResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Date:          r.Date.Format("2006-01-02"),
		WorkSessionID: r.WorkSessionID,
		Status:        string(r.Status),
		Source:        string(r.Source),
		Note:          r.Note,
		ApprovedBy:    r.ApprovedBy,
		ReviewNote:    r.ReviewNote,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	if r.WorkSession != nil {
		ws := ToWorkSessionResponse(*r.WorkSession)
		resp.WorkSession = &ws
	}
	return resp
}
