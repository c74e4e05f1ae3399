package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when absent
	GetByID(ctx context.Context, id string) (Employee, error)

	// Create fails with ErrEmailExists on a duplicate email
	Create(ctx context.Context, newEmployee Employee) (Employee, error)

	Update(ctx context.Context, employee Employee) error

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// ListActive returns every active employee ordered by name
	ListActive(ctx context.Context) ([]Employee, error)
}
