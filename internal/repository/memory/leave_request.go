package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()
	key := dateKey(req.Date)
	for _, existing := range r.s.leaves {
		if existing.EmployeeID == req.EmployeeID && dateKey(existing.Date) == key && existing.Status != leave.StatusCancelled {
			return leave.LeaveRequest{}, leave.ErrDuplicateLeave
		}
	}
	if req.ID == "" {
		req.ID = newID()
	}
	now := r.s.now()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.s.leaves[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()
	req, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

// GetForUpdate relies on the transaction holding the store lock.
func (r *leaveRequestRepository) GetForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, req leave.LeaveRequest) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.leaves[req.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	existing.Status = req.Status
	existing.ApprovedBy = req.ApprovedBy
	existing.DecisionNote = req.DecisionNote
	existing.DecidedAt = req.DecidedAt
	existing.UpdatedAt = r.s.now()
	r.s.leaves[req.ID] = existing
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	defer r.s.lock(ctx)()
	from, hasFrom := parseDate(filter.DateFrom)
	to, hasTo := parseDate(filter.DateTo)

	var out []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		if filter.Kind != nil && string(req.Kind) != *filter.Kind {
			continue
		}
		if hasFrom && dateKey(req.Date) < dateKey(from) {
			continue
		}
		if hasTo && dateKey(req.Date) > dateKey(to) {
			continue
		}
		out = append(out, req)
	}
	sortBy(out, func(a, b leave.LeaveRequest) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *leaveRequestRepository) ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()
	var out []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if req.EmployeeID == employeeID && req.Status == leave.StatusApproved && inRange(req.Date, from, to) {
			out = append(out, req)
		}
	}
	sortBy(out, func(a, b leave.LeaveRequest) bool { return a.Date.Before(b.Date) })
	return out, nil
}
