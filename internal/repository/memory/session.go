package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
)

type workSessionRepository struct {
	s *Store
}

func NewWorkSessionRepository(s *Store) session.WorkSessionRepository {
	return &workSessionRepository{s: s}
}

func (r *workSessionRepository) Create(ctx context.Context, ws session.WorkSession) (session.WorkSession, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.workSessions {
		if existing.DayOfWeek == ws.DayOfWeek && existing.SlotNumber == ws.SlotNumber && existing.Category == ws.Category {
			return session.WorkSession{}, session.ErrWorkSessionExists
		}
	}
	if ws.ID == "" {
		ws.ID = newID()
	}
	now := r.s.now()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	r.s.workSessions[ws.ID] = ws
	return ws, nil
}

func (r *workSessionRepository) GetByID(ctx context.Context, id string) (session.WorkSession, error) {
	defer r.s.lock(ctx)()
	ws, ok := r.s.workSessions[id]
	if !ok {
		return session.WorkSession{}, session.ErrWorkSessionNotFound
	}
	return ws, nil
}

func (r *workSessionRepository) Update(ctx context.Context, ws session.WorkSession) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.workSessions[ws.ID]
	if !ok {
		return session.ErrWorkSessionNotFound
	}
	existing.StartTime = ws.StartTime
	existing.EndTime = ws.EndTime
	existing.Rate = ws.Rate
	existing.Active = ws.Active
	existing.UpdatedAt = r.s.now()
	r.s.workSessions[ws.ID] = existing
	return nil
}

func (r *workSessionRepository) List(ctx context.Context, filter session.WorkSessionFilter) ([]session.WorkSession, error) {
	defer r.s.lock(ctx)()
	var out []session.WorkSession
	for _, ws := range r.s.workSessions {
		if filter.Category != nil && string(ws.Category) != *filter.Category {
			continue
		}
		if filter.DayOfWeek != nil && int(ws.DayOfWeek) != *filter.DayOfWeek {
			continue
		}
		if filter.Active != nil && ws.Active != *filter.Active {
			continue
		}
		out = append(out, ws)
	}
	sortBy(out, func(a, b session.WorkSession) bool {
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.SlotNumber != b.SlotNumber {
			return a.SlotNumber < b.SlotNumber
		}
		return a.Category < b.Category
	})
	return out, nil
}

type realizationRepository struct {
	s *Store
}

func NewRealizationRepository(s *Store) session.RealizationRepository {
	return &realizationRepository{s: s}
}

func (r *realizationRepository) Create(ctx context.Context, sr session.SessionRealization) (session.SessionRealization, error) {
	defer r.s.lock(ctx)()
	key := dateKey(sr.Date)
	for _, existing := range r.s.realizations {
		if existing.WorkSessionID == sr.WorkSessionID && dateKey(existing.Date) == key && existing.Status != session.StatusRejected {
			return session.SessionRealization{}, session.ErrSlotAlreadyClaimed
		}
	}
	if sr.ID == "" {
		sr.ID = newID()
	}
	now := r.s.now()
	sr.CreatedAt = now
	sr.UpdatedAt = now
	sr.WorkSession = nil
	r.s.realizations[sr.ID] = sr
	return r.withSession(sr), nil
}

func (r *realizationRepository) withSession(sr session.SessionRealization) session.SessionRealization {
	if ws, ok := r.s.workSessions[sr.WorkSessionID]; ok {
		sr.WorkSession = &ws
	}
	return sr
}

func (r *realizationRepository) GetByID(ctx context.Context, id string) (session.SessionRealization, error) {
	defer r.s.lock(ctx)()
	sr, ok := r.s.realizations[id]
	if !ok {
		return session.SessionRealization{}, session.ErrRealizationNotFound
	}
	return r.withSession(sr), nil
}

// GetForUpdate relies on the transaction holding the store lock.
func (r *realizationRepository) GetForUpdate(ctx context.Context, id string) (session.SessionRealization, error) {
	return r.GetByID(ctx, id)
}

func (r *realizationRepository) UpdateReview(ctx context.Context, sr session.SessionRealization) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.realizations[sr.ID]
	if !ok {
		return session.ErrRealizationNotFound
	}
	existing.Status = sr.Status
	existing.ApprovedBy = sr.ApprovedBy
	existing.ReviewNote = sr.ReviewNote
	existing.ReviewedAt = sr.ReviewedAt
	existing.UpdatedAt = r.s.now()
	r.s.realizations[sr.ID] = existing
	return nil
}

func (r *realizationRepository) List(ctx context.Context, filter session.RealizationFilter) ([]session.SessionRealization, int64, error) {
	defer r.s.lock(ctx)()
	from, hasFrom := parseDate(filter.DateFrom)
	to, hasTo := parseDate(filter.DateTo)

	var out []session.SessionRealization
	for _, sr := range r.s.realizations {
		if filter.EmployeeID != nil && sr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.WorkSessionID != nil && sr.WorkSessionID != *filter.WorkSessionID {
			continue
		}
		if filter.Status != nil && string(sr.Status) != *filter.Status {
			continue
		}
		if hasFrom && dateKey(sr.Date) < dateKey(from) {
			continue
		}
		if hasTo && dateKey(sr.Date) > dateKey(to) {
			continue
		}
		out = append(out, r.withSession(sr))
	}
	sortBy(out, func(a, b session.SessionRealization) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *realizationRepository) ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]session.SessionRealization, error) {
	defer r.s.lock(ctx)()
	var out []session.SessionRealization
	for _, sr := range r.s.realizations {
		if sr.EmployeeID == employeeID && sr.Status == session.StatusApproved && inRange(sr.Date, from, to) {
			out = append(out, r.withSession(sr))
		}
	}
	sortBy(out, func(a, b session.SessionRealization) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.WorkSessionID < b.WorkSessionID
	})
	return out, nil
}
