package memory

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.s.lock(ctx)()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	defer r.s.lock(ctx)()
	for _, e := range r.s.employees {
		if strings.EqualFold(e.Email, newEmployee.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	now := r.s.now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.s.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.employees[e.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	for id, other := range r.s.employees {
		if id != e.ID && strings.EqualFold(other.Email, e.Email) {
			return employee.ErrEmailExists
		}
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.employees[e.ID] = e
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	defer r.s.lock(ctx)()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if filter.Status != nil && string(e.EmploymentStatus) != *filter.Status {
			continue
		}
		if filter.PayType != nil && string(e.PayType) != *filter.PayType {
			continue
		}
		out = append(out, e)
	}
	sortBy(out, func(a, b employee.Employee) bool { return a.Name < b.Name })
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	defer r.s.lock(ctx)()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	sortBy(out, func(a, b employee.Employee) bool { return a.Name < b.Name })
	return out, nil
}
