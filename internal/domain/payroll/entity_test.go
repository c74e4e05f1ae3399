package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

var policy = Policy{StandardWorkingDays: 22}

func monthly(base int64) employee.Employee {
	salary := decimal.NewFromInt(base)
	return employee.Employee{ID: "emp-1", PayType: employee.PayTypeMonthly, BaseSalary: &salary}
}

func TestCompute_Monthly(t *testing.T) {
	t.Run("leave deduction and session income", func(t *testing.T) {
		r := recap.MonthlyRecap{
			ID:            "recap-1",
			Period:        period.New(2025, 3),
			LeaveDays:     2,
			SessionIncome: decimal.NewFromInt(150000),
		}
		p, err := policy.Compute(monthly(12000000), r)
		require.NoError(t, err)

		assert.Equal(t, "1090909", p.LeaveDeduction.String())
		assert.Equal(t, "11059091", p.Total.String())
		require.Len(t, p.Components, 3)
		assert.Equal(t, ComponentBaseSalary, p.Components[0].Code)
		assert.Equal(t, "-1090909", p.Components[1].Amount.String())
		assert.Equal(t, ComponentSessionIncome, p.Components[2].Code)
		assert.Equal(t, PayrollStatusDraft, p.Status)
	})

	t.Run("no leave and no sessions pays exactly the base salary", func(t *testing.T) {
		p, err := policy.Compute(monthly(8750000), recap.MonthlyRecap{Period: period.New(2025, 3)})
		require.NoError(t, err)
		assert.True(t, p.Total.Equal(decimal.NewFromInt(8750000)))
		assert.Len(t, p.Components, 1)
	})

	t.Run("missing base salary", func(t *testing.T) {
		emp := employee.Employee{PayType: employee.PayTypeMonthly}
		_, err := policy.Compute(emp, recap.MonthlyRecap{})
		assert.ErrorIs(t, err, ErrEmployeeHasNoBaseSalary)
	})
}

func TestCompute_PerSession(t *testing.T) {
	salary := decimal.NewFromInt(5000000)
	emp := employee.Employee{PayType: employee.PayTypePerSession, BaseSalary: &salary}

	t.Run("sums session categories without deduction", func(t *testing.T) {
		r := recap.MonthlyRecap{
			LeaveDays:         3,
			CodingSessions:    4,
			NonCodingSessions: 1,
			CodingValue:       decimal.NewFromInt(600000),
			NonCodingValue:    decimal.NewFromInt(100000),
		}
		p, err := policy.Compute(emp, r)
		require.NoError(t, err)
		assert.Equal(t, "700000", p.Total.String())
		assert.True(t, p.LeaveDeduction.IsZero())
		require.Len(t, p.Components, 2)
		assert.Equal(t, ComponentCodingSessions, p.Components[0].Code)
		assert.Equal(t, ComponentNonCodingSessions, p.Components[1].Code)
	})

	t.Run("no sessions draws no pay", func(t *testing.T) {
		p, err := policy.Compute(emp, recap.MonthlyRecap{})
		require.NoError(t, err)
		assert.True(t, p.Total.IsZero())
		assert.Empty(t, p.Components)
	})
}

func TestLeaveDeductionRounding(t *testing.T) {
	// 1,000,001 / 22 = 45,454.59 -> 45,455
	assert.Equal(t, "45455", policy.LeaveDeduction(decimal.NewFromInt(1000001), 1).String())
	assert.True(t, policy.LeaveDeduction(decimal.NewFromInt(1000000), 0).IsZero())
}

func TestStatusAdvance(t *testing.T) {
	assert.NoError(t, PayrollStatusDraft.Advance(PayrollStatusApproved))
	assert.NoError(t, PayrollStatusApproved.Advance(PayrollStatusPaid))
	assert.ErrorIs(t, PayrollStatusDraft.Advance(PayrollStatusPaid), ErrInvalidTransition)
	assert.ErrorIs(t, PayrollStatusPaid.Advance(PayrollStatusApproved), ErrInvalidTransition)
	assert.ErrorIs(t, PayrollStatusPaid.Advance(PayrollStatusDraft), ErrInvalidTransition)

	assert.NoError(t, PaymentStatusPending.Advance(PaymentStatusSuccess))
	assert.NoError(t, PaymentStatusPending.Advance(PaymentStatusFailed))
	assert.ErrorIs(t, PaymentStatusSuccess.Advance(PaymentStatusFailed), ErrInvalidPaymentTransition)
	assert.ErrorIs(t, PaymentStatusPending.Advance(PaymentStatusPending), ErrInvalidPaymentTransition)
}
