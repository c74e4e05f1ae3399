package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========== GENERATION DTOs ==========

type GenerateRequest struct {
	RecapID string `json:"recap_id" validate:"required"`
}

func (r *GenerateRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========== COMPONENT DTOs ==========

type AddAdjustmentRequest struct {
	PayrollID string          `json:"-"`
	Label     string          `json:"label" validate:"required,max=150"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r *AddAdjustmentRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.PayrollID) {
		errs.Add("payroll_id", "payroll_id is required")
	}
	if r.Amount.IsZero() {
		errs.Add("amount", "amount must not be zero")
	}
	return errs.Err()
}

// ========== PAYMENT DTOs ==========

type RecordPaymentRequest struct {
	PayrollID    string  `json:"-"`
	TransferDate string  `json:"transfer_date" validate:"required"`
	ProofRef     *string `json:"proof_ref,omitempty"`
	Note         *string `json:"note,omitempty" validate:"omitempty,max=500"`

	transferDate time.Time
}

func (r *RecordPaymentRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.PayrollID) {
		errs.Add("payroll_id", "payroll_id is required")
	}
	if r.TransferDate != "" {
		if d, ok := validator.IsValidDate(r.TransferDate); ok {
			r.transferDate = d
		} else {
			errs.Add("transfer_date", "transfer_date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

func (r *RecordPaymentRequest) ParsedTransferDate() time.Time {
	return r.transferDate
}

type UpdatePaymentStatusRequest struct {
	PaymentID string  `json:"-"`
	Status    string  `json:"status" validate:"required,oneof=success failed"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.PaymentID) {
		errs.Add("payment_id", "payment_id is required")
	}
	return errs.Err()
}

// ========== QUERY DTOs ==========

type PayrollFilter struct {
	EmployeeID *string
	Period     *period.Period
	Status     *string
	Page       int
	Limit      int
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !PayrollStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: draft, approved, paid")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.Err()
}

// ========== RESPONSE DTOs ==========

type ComponentResponse struct {
	ID     string          `json:"id"`
	Code   string          `json:"code"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentResponse struct {
	ID           string  `json:"id"`
	PayrollID    string  `json:"payroll_id"`
	TransferDate string  `json:"transfer_date"`
	ProofRef     *string `json:"proof_ref,omitempty"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type PayrollResponse struct {
	ID             string              `json:"id"`
	EmployeeID     string              `json:"employee_id"`
	RecapID        string              `json:"recap_id"`
	Period         period.Period       `json:"period"`
	PayType        string              `json:"pay_type"`
	LeaveDays      int                 `json:"leave_days"`
	LeaveDeduction decimal.Decimal     `json:"leave_deduction"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	CreatedBy      string              `json:"created_by"`
	ApprovedBy     *string             `json:"approved_by,omitempty"`
	ApprovedAt     *string             `json:"approved_at,omitempty"`
	PaidAt         *string             `json:"paid_at,omitempty"`
	Components     []ComponentResponse `json:"components"`
	Payments       []PaymentResponse   `json:"payments"`
	CreatedAt      string              `json:"created_at"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Payrolls   []PayrollResponse `json:"payrolls"`
}

func ToPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		PayrollID:    p.PayrollID,
		TransferDate: p.TransferDate.Format("2006-01-02"),
		ProofRef:     p.ProofRef,
		Status:       string(p.Status),
		ApprovedBy:   p.ApprovedBy,
		Note:         p.Note,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func ToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		RecapID:        p.RecapID,
		Period:         p.Period,
		PayType:        string(p.PayType),
		LeaveDays:      p.LeaveDays,
		LeaveDeduction: p.LeaveDeduction,
		Total:          p.Total,
		Status:         string(p.Status),
		CreatedBy:      p.CreatedBy,
		ApprovedBy:     p.ApprovedBy,
		Components:     make([]ComponentResponse, 0, len(p.Components)),
		Payments:       make([]PaymentResponse, 0, len(p.Payments)),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
	if p.ApprovedAt != nil {
		s := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	for _, c := range p.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			ID:     c.ID,
			Code:   string(c.Code),
			Label:  c.Label,
			Amount: c.Amount,
		})
	}
	for _, pay := range p.Payments {
		resp.Payments = append(resp.Payments, ToPaymentResponse(pay))
	}
	return resp
}
