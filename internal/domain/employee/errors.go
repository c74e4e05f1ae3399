package employee

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.NotFound("EMPLOYEE_NOT_FOUND", "employee not found")
	ErrEmailExists      = apperror.Conflict("EMPLOYEE_EMAIL_EXISTS", "email already registered")
	ErrEmployeeInactive = apperror.State("EMPLOYEE_INACTIVE", "employee is inactive")
)
