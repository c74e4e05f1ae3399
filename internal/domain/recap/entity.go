package recap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

// MonthlyRecap folds one employee's month of attendance, approved leave and
// approved session claims. It is replaced wholesale on re-aggregation.
type MonthlyRecap struct {
	ID         string
	EmployeeID string
	Period     period.Period

	PresentDays    int
	PermissionDays int
	SickDays       int
	LeaveDays      int
	AbsentDays     int

	CodingSessions    int
	NonCodingSessions int
	CodingValue       decimal.Decimal
	NonCodingValue    decimal.Decimal
	SessionIncome     decimal.Decimal

	CreatedAt time.Time
}
