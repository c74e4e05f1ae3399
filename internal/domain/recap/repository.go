package recap

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type RecapRepository interface {
	// Upsert replaces the recap for (employee, period) in a single write,
	// keeping the existing ID and CreatedAt when one exists.
	Upsert(ctx context.Context, r MonthlyRecap) (MonthlyRecap, error)
	GetByID(ctx context.Context, id string) (MonthlyRecap, error)
	// GetByEmployeeAndPeriod returns nil, nil when no recap exists
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, p period.Period) (*MonthlyRecap, error)
	List(ctx context.Context, filter RecapFilter) ([]MonthlyRecap, error)
}
