package user

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	ErrInsufficientPermissions = apperror.Forbidden("INSUFFICIENT_PERMISSIONS", "insufficient permissions")
	ErrInvalidRole             = apperror.Forbidden("INVALID_ROLE", "unknown role")
	ErrNotAnEmployee           = apperror.Forbidden("NOT_AN_EMPLOYEE", "identity is not linked to an employee")
)
