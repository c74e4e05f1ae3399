package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type EmployeeService interface {
	Create(ctx context.Context, actor user.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (EmployeeResponse, error)
	List(ctx context.Context, actor user.Actor, filter EmployeeFilter) (ListEmployeeResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateEmployeeRequest) (EmployeeResponse, error)
}
