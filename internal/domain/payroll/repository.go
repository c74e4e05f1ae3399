package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

// PayrollRepository defines data access methods for payroll.
type PayrollRepository interface {
	// Create stores the payroll and its components.
	// Fails with ErrPayrollAlreadyGenerated on a duplicate (employee, period).
	Create(ctx context.Context, p Payroll) (Payroll, error)
	// GetByID loads the payroll with components and payments
	GetByID(ctx context.Context, id string) (Payroll, error)
	// GetForUpdate loads like GetByID and locks the row until the transaction ends
	GetForUpdate(ctx context.Context, id string) (Payroll, error)
	// ExistsForPeriod takes the period explicitly
	ExistsForPeriod(ctx context.Context, employeeID string, p period.Period) (bool, error)
	// UpdateHeader writes status, approval fields and totals
	UpdateHeader(ctx context.Context, p Payroll) error
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)

	// Components
	AddComponent(ctx context.Context, c Component) (Component, error)
	DeleteComponent(ctx context.Context, payrollID, componentID string) error

	// Payments
	CreatePayment(ctx context.Context, pay Payment) (Payment, error)
	GetPaymentForUpdate(ctx context.Context, id string) (Payment, error)
	UpdatePayment(ctx context.Context, pay Payment) error
}
