package payroll

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	ErrPayrollNotFound         = apperror.NotFound("PAYROLL_NOT_FOUND", "payroll not found")
	ErrPayrollAlreadyGenerated = apperror.Conflict("PAYROLL_ALREADY_GENERATED", "payroll already exists for this employee and period")
	ErrEmployeeHasNoBaseSalary = apperror.State("EMPLOYEE_HAS_NO_BASE_SALARY", "employee has no base salary configured")
	ErrUnknownPayType          = apperror.State("UNKNOWN_PAY_TYPE", "employee pay type is not supported")
	ErrInvalidTransition       = apperror.State("INVALID_PAYROLL_TRANSITION", "payroll cannot make this transition")
	ErrPayrollNotDraft         = apperror.State("PAYROLL_NOT_DRAFT", "payroll components can only change while in draft")
	ErrPayrollNotApproved      = apperror.State("PAYROLL_NOT_APPROVED", "payments can only be recorded for approved payrolls")

	ErrComponentNotFound        = apperror.NotFound("PAYROLL_COMPONENT_NOT_FOUND", "payroll component not found")
	ErrGeneratedComponent       = apperror.State("GENERATED_COMPONENT", "only manual adjustments can be removed")
	ErrPaymentNotFound          = apperror.NotFound("PAYMENT_NOT_FOUND", "payroll payment not found")
	ErrInvalidPaymentTransition = apperror.State("INVALID_PAYMENT_TRANSITION", "payment status cannot make this transition")
)
