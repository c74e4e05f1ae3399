package payroll

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type PayrollService interface {
	// Generation
	GenerateFromRecap(ctx context.Context, actor user.Actor, req GenerateRequest) (PayrollResponse, error)

	// Status
	Approve(ctx context.Context, actor user.Actor, id string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, actor user.Actor, id string) (PayrollResponse, error)

	// Manual adjustments (draft only)
	AddAdjustment(ctx context.Context, actor user.Actor, req AddAdjustmentRequest) (PayrollResponse, error)
	RemoveComponent(ctx context.Context, actor user.Actor, payrollID, componentID string) (PayrollResponse, error)

	// Payments
	RecordPayment(ctx context.Context, actor user.Actor, req RecordPaymentRequest) (PaymentResponse, error)
	UpdatePaymentStatus(ctx context.Context, actor user.Actor, req UpdatePaymentStatusRequest) (PaymentResponse, error)

	// Queries
	Get(ctx context.Context, actor user.Actor, id string) (PayrollResponse, error)
	List(ctx context.Context, actor user.Actor, filter PayrollFilter) (ListPayrollResponse, error)
	Payslip(ctx context.Context, actor user.Actor, id string, w io.Writer) error
}
