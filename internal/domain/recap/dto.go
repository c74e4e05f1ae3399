package recap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type AggregateRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Period     string `json:"period" validate:"required"`

	period period.Period
}

func (r *AggregateRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Period != "" {
		p, err := period.Parse(r.Period)
		if err != nil {
			errs.Add("period", "period must be in YYYY-MM format")
		}
		r.period = p
	}
	return errs.Err()
}

// ParsedPeriod is available after Validate succeeds.
func (r *AggregateRequest) ParsedPeriod() period.Period {
	return r.period
}

type AggregateAllRequest struct {
	Period string `json:"period" validate:"required"`

	period period.Period
}

func (r *AggregateAllRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Period != "" {
		p, err := period.Parse(r.Period)
		if err != nil {
			errs.Add("period", "period must be in YYYY-MM format")
		}
		r.period = p
	}
	return errs.Err()
}

func (r *AggregateAllRequest) ParsedPeriod() period.Period {
	return r.period
}

type RecapFilter struct {
	EmployeeID *string
	Period     *period.Period
}

type RecapResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Period            period.Period   `json:"period"`
	PresentDays       int             `json:"present_days"`
	PermissionDays    int             `json:"permission_days"`
	SickDays          int             `json:"sick_days"`
	LeaveDays         int             `json:"leave_days"`
	AbsentDays        int             `json:"absent_days"`
	CodingSessions    int             `json:"coding_sessions"`
	NonCodingSessions int             `json:"non_coding_sessions"`
	CodingValue       decimal.Decimal `json:"coding_value"`
	NonCodingValue    decimal.Decimal `json:"non_coding_value"`
	SessionIncome     decimal.Decimal `json:"session_income"`
	CreatedAt         string          `json:"created_at"`
}

func ToResponse(r MonthlyRecap) RecapResponse {
	return RecapResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Period:            r.Period,
		PresentDays:       r.PresentDays,
		PermissionDays:    r.PermissionDays,
		SickDays:          r.SickDays,
		LeaveDays:         r.LeaveDays,
		AbsentDays:        r.AbsentDays,
		CodingSessions:    r.CodingSessions,
		NonCodingSessions: r.NonCodingSessions,
		CodingValue:       r.CodingValue,
		NonCodingValue:    r.NonCodingValue,
		SessionIncome:     r.SessionIncome,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

type AggregateAllResponse struct {
	Period period.Period   `json:"period"`
	Recaps []RecapResponse `json:"recaps"`
}
