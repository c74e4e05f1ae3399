// Package memory keeps every repository in process. It backs DB_DRIVER=memory
// and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
)

// Store holds all tables behind a single mutex. Uniqueness checks and the
// write that follows them happen under the same lock, so the first writer
// wins and later ones see the conflict.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	tables
}

type tables struct {
	employees    map[string]employee.Employee
	attendance   map[string]attendance.Attendance
	logs         map[string]attendance.AttendanceLog
	leaves       map[string]leave.LeaveRequest
	workSessions map[string]session.WorkSession
	realizations map[string]session.SessionRealization
	recaps       map[string]recap.MonthlyRecap
	payrolls     map[string]payroll.Payroll
	components   map[string]payroll.Component
	payments     map[string]payroll.Payment
}

func NewStore() *Store {
	return &Store{
		now: func() time.Time { return time.Now().UTC() },
		tables: tables{
			employees:    map[string]employee.Employee{},
			attendance:   map[string]attendance.Attendance{},
			logs:         map[string]attendance.AttendanceLog{},
			leaves:       map[string]leave.LeaveRequest{},
			workSessions: map[string]session.WorkSession{},
			realizations: map[string]session.SessionRealization{},
			recaps:       map[string]recap.MonthlyRecap{},
			payrolls:     map[string]payroll.Payroll{},
			components:   map[string]payroll.Component{},
			payments:     map[string]payroll.Payment{},
		},
	}
}

func (t tables) clone() tables {
	return tables{
		employees:    maps.Clone(t.employees),
		attendance:   maps.Clone(t.attendance),
		logs:         maps.Clone(t.logs),
		leaves:       maps.Clone(t.leaves),
		workSessions: maps.Clone(t.workSessions),
		realizations: maps.Clone(t.realizations),
		recaps:       maps.Clone(t.recaps),
		payrolls:     maps.Clone(t.payrolls),
		components:   maps.Clone(t.components),
		payments:     maps.Clone(t.payments),
	}
}

type txKey struct{}

// lock takes the store mutex unless ctx already runs inside one of this
// store's transactions. The returned func releases it.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction holds the store lock for the whole of fn and restores
// every table if fn fails or panics.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.tables.clone()
	defer func() {
		if p := recover(); p != nil {
			s.tables = snapshot
			panic(p)
		}
		if err != nil {
			s.tables = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// WithinSnapshot is WithinTransaction: the store lock already keeps every
// other writer out while fn reads.
func (s *Store) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.WithinTransaction(ctx, fn)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func inRange(d, from, to time.Time) bool {
	k := dateKey(d)
	return k >= dateKey(from) && k <= dateKey(to)
}

func parseDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *s)
	return t, err == nil
}

// page returns the requested page of items; page and limit are 1-based and
// already defaulted by the filter's Validate.
func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
