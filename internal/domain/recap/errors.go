package recap

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	ErrRecapNotFound = apperror.NotFound("RECAP_NOT_FOUND", "monthly recap not found")
	ErrInvalidPeriod = apperror.Validation("INVALID_PERIOD", "period must be in YYYY-MM format")
)
