package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	if r.findByEmployeeAndDate(a.EmployeeID, a.Date) != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceExists
	}
	if a.ID == "" {
		a.ID = newID()
	}
	now := r.s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Logs = nil
	r.s.attendance[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	return r.findByEmployeeAndDate(employeeID, date), nil
}

func (r *attendanceRepository) findByEmployeeAndDate(employeeID string, date time.Time) *attendance.Attendance {
	key := dateKey(date)
	for _, a := range r.s.attendance {
		if a.EmployeeID == employeeID && dateKey(a.Date) == key {
			return &a
		}
	}
	return nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.attendance[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	existing.Status = a.Status
	existing.CheckIn = a.CheckIn
	existing.CheckOut = a.CheckOut
	existing.WorkHoursInMinutes = a.WorkHoursInMinutes
	existing.Note = a.Note
	existing.UpdatedAt = r.s.now()
	r.s.attendance[a.ID] = existing
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.attendance[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	for _, l := range r.s.logs {
		if l.AttendanceID == id {
			return attendance.ErrHasEvents
		}
	}
	delete(r.s.attendance, id)
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	defer r.s.lock(ctx)()
	from, hasFrom := parseDate(filter.DateFrom)
	to, hasTo := parseDate(filter.DateTo)

	var out []attendance.Attendance
	for _, a := range r.s.attendance {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		if hasFrom && dateKey(a.Date) < dateKey(from) {
			continue
		}
		if hasTo && dateKey(a.Date) > dateKey(to) {
			continue
		}
		out = append(out, a)
	}
	sortBy(out, func(a, b attendance.Attendance) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.EmployeeID < b.EmployeeID
	})
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *attendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	var out []attendance.Attendance
	for _, a := range r.s.attendance {
		if a.EmployeeID == employeeID && inRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	sortBy(out, func(a, b attendance.Attendance) bool { return a.Date.Before(b.Date) })
	return out, nil
}

func (r *attendanceRepository) HasLog(ctx context.Context, employeeID string, date time.Time, kind attendance.EventKind) (bool, error) {
	defer r.s.lock(ctx)()
	key := dateKey(date)
	for _, l := range r.s.logs {
		if l.EmployeeID == employeeID && l.Kind == kind && dateKey(l.Date) == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *attendanceRepository) CreateLog(ctx context.Context, l attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.logs {
		if existing.AttendanceID == l.AttendanceID && existing.Kind == l.Kind {
			return attendance.AttendanceLog{}, attendance.ErrDuplicateEvent
		}
	}
	if l.ID == "" {
		l.ID = newID()
	}
	l.CreatedAt = r.s.now()
	r.s.logs[l.ID] = l
	return l, nil
}

func (r *attendanceRepository) ListLogs(ctx context.Context, attendanceID string) ([]attendance.AttendanceLog, error) {
	defer r.s.lock(ctx)()
	var out []attendance.AttendanceLog
	for _, l := range r.s.logs {
		if l.AttendanceID == attendanceID {
			out = append(out, l)
		}
	}
	sortBy(out, func(a, b attendance.AttendanceLog) bool { return a.Timestamp.Before(b.Timestamp) })
	return out, nil
}
