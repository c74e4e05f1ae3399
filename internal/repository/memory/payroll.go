package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.payrolls {
		if existing.EmployeeID == p.EmployeeID && existing.Period == p.Period {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyGenerated
		}
	}
	if p.ID == "" {
		p.ID = newID()
	}
	now := r.s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	components := p.Components
	p.Components = nil
	p.Payments = nil
	r.s.payrolls[p.ID] = p

	for _, c := range components {
		c.PayrollID = p.ID
		if c.ID == "" {
			c.ID = newID()
		}
		c.CreatedAt = now
		r.s.components[c.ID] = c
	}
	return r.load(p), nil
}

// load attaches components and payments in insertion order.
func (r *payrollRepository) load(p payroll.Payroll) payroll.Payroll {
	p.Components = nil
	p.Payments = nil
	for _, c := range r.s.components {
		if c.PayrollID == p.ID {
			p.Components = append(p.Components, c)
		}
	}
	for _, pay := range r.s.payments {
		if pay.PayrollID == p.ID {
			p.Payments = append(p.Payments, pay)
		}
	}
	// UUIDv7 ids sort by creation time
	sortBy(p.Components, func(a, b payroll.Component) bool { return a.ID < b.ID })
	sortBy(p.Payments, func(a, b payroll.Payment) bool { return a.ID < b.ID })
	return p
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.load(p), nil
}

// GetForUpdate relies on the transaction holding the store lock.
func (r *payrollRepository) GetForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.GetByID(ctx, id)
}

func (r *payrollRepository) ExistsForPeriod(ctx context.Context, employeeID string, p period.Period) (bool, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.payrolls {
		if existing.EmployeeID == employeeID && existing.Period == p {
			return true, nil
		}
	}
	return false, nil
}

func (r *payrollRepository) UpdateHeader(ctx context.Context, p payroll.Payroll) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.payrolls[p.ID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	existing.Status = p.Status
	existing.Total = p.Total
	existing.LeaveDeduction = p.LeaveDeduction
	existing.ApprovedBy = p.ApprovedBy
	existing.ApprovedAt = p.ApprovedAt
	existing.PaidAt = p.PaidAt
	existing.UpdatedAt = r.s.now()
	r.s.payrolls[p.ID] = existing
	return nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	defer r.s.lock(ctx)()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Period != nil && p.Period != *filter.Period {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, r.load(p))
	}
	sortBy(out, func(a, b payroll.Payroll) bool {
		if a.Period != b.Period {
			return a.Period.String() > b.Period.String()
		}
		return a.EmployeeID < b.EmployeeID
	})
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *payrollRepository) AddComponent(ctx context.Context, c payroll.Component) (payroll.Component, error) {
	defer r.s.lock(ctx)()
	if _, ok := r.s.payrolls[c.PayrollID]; !ok {
		return payroll.Component{}, payroll.ErrPayrollNotFound
	}
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = r.s.now()
	r.s.components[c.ID] = c
	return c, nil
}

func (r *payrollRepository) DeleteComponent(ctx context.Context, payrollID, componentID string) error {
	defer r.s.lock(ctx)()
	c, ok := r.s.components[componentID]
	if !ok || c.PayrollID != payrollID {
		return payroll.ErrComponentNotFound
	}
	delete(r.s.components, componentID)
	return nil
}

func (r *payrollRepository) CreatePayment(ctx context.Context, pay payroll.Payment) (payroll.Payment, error) {
	defer r.s.lock(ctx)()
	if _, ok := r.s.payrolls[pay.PayrollID]; !ok {
		return payroll.Payment{}, payroll.ErrPayrollNotFound
	}
	if pay.ID == "" {
		pay.ID = newID()
	}
	now := r.s.now()
	pay.CreatedAt = now
	pay.UpdatedAt = now
	r.s.payments[pay.ID] = pay
	return pay, nil
}

func (r *payrollRepository) GetPaymentForUpdate(ctx context.Context, id string) (payroll.Payment, error) {
	defer r.s.lock(ctx)()
	pay, ok := r.s.payments[id]
	if !ok {
		return payroll.Payment{}, payroll.ErrPaymentNotFound
	}
	return pay, nil
}

func (r *payrollRepository) UpdatePayment(ctx context.Context, pay payroll.Payment) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.payments[pay.ID]
	if !ok {
		return payroll.ErrPaymentNotFound
	}
	existing.Status = pay.Status
	existing.ApprovedBy = pay.ApprovedBy
	existing.Note = pay.Note
	existing.UpdatedAt = r.s.now()
	r.s.payments[pay.ID] = existing
	return nil
}
