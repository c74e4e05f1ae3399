package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "draft"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

func (s PayrollStatus) IsValid() bool {
	return s == PayrollStatusDraft || s == PayrollStatusApproved || s == PayrollStatusPaid
}

// payrollTransitions only moves forward.
var payrollTransitions = map[PayrollStatus]PayrollStatus{
	PayrollStatusDraft:    PayrollStatusApproved,
	PayrollStatusApproved: PayrollStatusPaid,
}

// Advance moves s to target when target is the next forward state.
func (s PayrollStatus) Advance(target PayrollStatus) error {
	if payrollTransitions[s] != target {
		return fmt.Errorf("%w: cannot move payroll from '%s' to '%s'", ErrInvalidTransition, s, target)
	}
	return nil
}

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Advance(target PaymentStatus) error {
	if s != PaymentStatusPending || (target != PaymentStatusSuccess && target != PaymentStatusFailed) {
		return fmt.Errorf("%w: cannot move payment from '%s' to '%s'", ErrInvalidPaymentTransition, s, target)
	}
	return nil
}

// ComponentCode identifies generated components; manual edits use ComponentAdjustment.
type ComponentCode string

const (
	ComponentBaseSalary        ComponentCode = "base_salary"
	ComponentLeaveDeduction    ComponentCode = "leave_deduction"
	ComponentSessionIncome     ComponentCode = "session_income"
	ComponentCodingSessions    ComponentCode = "coding_sessions"
	ComponentNonCodingSessions ComponentCode = "non_coding_sessions"
	ComponentAdjustment        ComponentCode = "adjustment"
)

// Component is one signed payroll line: positive earns, negative deducts.
type Component struct {
	ID        string
	PayrollID string
	Code      ComponentCode
	Label     string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

type Payment struct {
	ID           string
	PayrollID    string
	TransferDate time.Time
	ProofRef     *string
	Status       PaymentStatus
	ApprovedBy   *string
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Payroll is the itemized salary generated from one monthly recap.
type Payroll struct {
	ID             string
	EmployeeID     string
	RecapID        string
	Period         period.Period
	PayType        employee.PayType
	LeaveDays      int
	LeaveDeduction decimal.Decimal
	Total          decimal.Decimal
	Status         PayrollStatus
	CreatedBy      string
	ApprovedBy     *string
	ApprovedAt     *time.Time
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Components []Component
	Payments   []Payment
}

// Recompute sets Total to the sum of the signed component amounts.
func (p *Payroll) Recompute() {
	total := decimal.Zero
	for _, c := range p.Components {
		total = total.Add(c.Amount)
	}
	p.Total = total
}

// Policy holds the pay rules that are not stored per employee.
type Policy struct {
	StandardWorkingDays int
	// Currency labels amounts on payslips, e.g. "IDR".
	Currency string
}

// LeaveDeduction is leaveDays x (base / standardDays), rounded half away
// from zero to whole currency units. It is returned as a positive amount.
func (pol Policy) LeaveDeduction(base decimal.Decimal, leaveDays int) decimal.Decimal {
	if leaveDays <= 0 || pol.StandardWorkingDays <= 0 {
		return decimal.Zero
	}
	return base.
		Mul(decimal.NewFromInt(int64(leaveDays))).
		Div(decimal.NewFromInt(int64(pol.StandardWorkingDays))).
		Round(0)
}

// Compute builds the generated components for emp from r. Payroll IDs and
// timestamps are filled in by the caller.
func (pol Policy) Compute(emp employee.Employee, r recap.MonthlyRecap) (Payroll, error) {
	p := Payroll{
		EmployeeID:     emp.ID,
		RecapID:        r.ID,
		Period:         r.Period,
		PayType:        emp.PayType,
		LeaveDays:      r.LeaveDays,
		LeaveDeduction: decimal.Zero,
		Status:         PayrollStatusDraft,
	}

	switch emp.PayType {
	case employee.PayTypeMonthly:
		if emp.BaseSalary == nil {
			return Payroll{}, ErrEmployeeHasNoBaseSalary
		}
		base := *emp.BaseSalary
		p.Components = append(p.Components, Component{Code: ComponentBaseSalary, Label: "Base salary", Amount: base})

		deduction := pol.LeaveDeduction(base, r.LeaveDays)
		if deduction.IsPositive() {
			p.LeaveDeduction = deduction
			p.Components = append(p.Components, Component{
				Code:   ComponentLeaveDeduction,
				Label:  fmt.Sprintf("Leave deduction (%d days)", r.LeaveDays),
				Amount: deduction.Neg(),
			})
		}
		if r.SessionIncome.IsPositive() {
			p.Components = append(p.Components, Component{Code: ComponentSessionIncome, Label: "Session income", Amount: r.SessionIncome})
		}

	case employee.PayTypePerSession:
		if r.CodingValue.IsPositive() {
			p.Components = append(p.Components, Component{
				Code:   ComponentCodingSessions,
				Label:  fmt.Sprintf("Coding sessions (%d)", r.CodingSessions),
				Amount: r.CodingValue,
			})
		}
		if r.NonCodingValue.IsPositive() {
			p.Components = append(p.Components, Component{
				Code:   ComponentNonCodingSessions,
				Label:  fmt.Sprintf("Non-coding sessions (%d)", r.NonCodingSessions),
				Amount: r.NonCodingValue,
			})
		}

	default:
		return Payroll{}, fmt.Errorf("%w: '%s'", ErrUnknownPayType, emp.PayType)
	}

	p.Recompute()
	return p, nil
}
