package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type recapRepository struct {
	s *Store
}

func NewRecapRepository(s *Store) recap.RecapRepository {
	return &recapRepository{s: s}
}

func (r *recapRepository) Upsert(ctx context.Context, rc recap.MonthlyRecap) (recap.MonthlyRecap, error) {
	defer r.s.lock(ctx)()
	if existing := r.find(rc.EmployeeID, rc.Period); existing != nil {
		rc.ID = existing.ID
		rc.CreatedAt = existing.CreatedAt
	} else {
		if rc.ID == "" {
			rc.ID = newID()
		}
		rc.CreatedAt = r.s.now()
	}
	r.s.recaps[rc.ID] = rc
	return rc, nil
}

func (r *recapRepository) find(employeeID string, p period.Period) *recap.MonthlyRecap {
	for _, rc := range r.s.recaps {
		if rc.EmployeeID == employeeID && rc.Period == p {
			return &rc
		}
	}
	return nil
}

func (r *recapRepository) GetByID(ctx context.Context, id string) (recap.MonthlyRecap, error) {
	defer r.s.lock(ctx)()
	rc, ok := r.s.recaps[id]
	if !ok {
		return recap.MonthlyRecap{}, recap.ErrRecapNotFound
	}
	return rc, nil
}

func (r *recapRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, p period.Period) (*recap.MonthlyRecap, error) {
	defer r.s.lock(ctx)()
	return r.find(employeeID, p), nil
}

func (r *recapRepository) List(ctx context.Context, filter recap.RecapFilter) ([]recap.MonthlyRecap, error) {
	defer r.s.lock(ctx)()
	var out []recap.MonthlyRecap
	for _, rc := range r.s.recaps {
		if filter.EmployeeID != nil && rc.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Period != nil && rc.Period != *filter.Period {
			continue
		}
		out = append(out, rc)
	}
	sortBy(out, func(a, b recap.MonthlyRecap) bool {
		if a.Period != b.Period {
			return a.Period.String() > b.Period.String()
		}
		return a.EmployeeID < b.EmployeeID
	})
	return out, nil
}
