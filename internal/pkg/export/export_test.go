package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

func TestPayslip(t *testing.T) {
	emp := employee.Employee{ID: "e-1", Name: "Rina", Email: "rina@example.com", PayType: employee.PayTypeMonthly}
	p := payroll.Payroll{
		ID:      "p-1",
		Period:  period.New(2025, time.March),
		PayType: employee.PayTypeMonthly,
		Status:  payroll.PayrollStatusDraft,
		Components: []payroll.Component{
			{Code: payroll.ComponentBaseSalary, Label: "Base salary", Amount: decimal.NewFromInt(12000000)},
			{Code: payroll.ComponentLeaveDeduction, Label: "Leave deduction (2 days)", Amount: decimal.NewFromInt(-1090909)},
		},
	}
	p.Recompute()

	var buf bytes.Buffer
	require.NoError(t, Payslip(&buf, emp, p, "IDR"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRecapWorkbook(t *testing.T) {
	p := period.New(2025, time.March)
	recaps := []recap.MonthlyRecap{
		{
			EmployeeID:     "e-1",
			Period:         p,
			PresentDays:    19,
			LeaveDays:      2,
			CodingSessions: 3,
			CodingValue:    decimal.NewFromInt(150000),
			NonCodingValue: decimal.Zero,
			SessionIncome:  decimal.NewFromInt(150000),
		},
		{EmployeeID: "e-2", Period: p, AbsentDays: 21},
	}

	var buf bytes.Buffer
	require.NoError(t, RecapWorkbook(&buf, p, recaps, map[string]string{"e-1": "Rina"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Recap 2025-03"}, f.GetSheetList())
	rows, err := f.GetRows("Recap 2025-03")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, []string{"e-1", "Rina", "19", "0", "0", "2", "0", "3", "0", "150000", "0", "150000"}, rows[1])
	assert.Equal(t, "e-2", rows[2][0])
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "21", rows[2][6])
}
