package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
)

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := employees.Create(ctx, employee.Employee{Name: "Ayu", Email: "ayu@example.com"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, total, err := employees.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestWithinTransaction_CommitsAndNests(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	ctx := context.Background()

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := employees.Create(ctx, employee.Employee{Name: "Ayu", Email: "ayu@example.com"}); err != nil {
			return err
		}
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := employees.Create(ctx, employee.Employee{Name: "Bima", Email: "bima@example.com"})
			return err
		})
	})
	require.NoError(t, err)

	active, err := employees.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, "employees were created without an active status")

	_, total, err := employees.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestAttendanceUniqueness(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	a, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "e1", Date: date, Status: attendance.StatusPresent})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "e1", Date: date, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	_, err = repo.CreateLog(ctx, attendance.AttendanceLog{AttendanceID: a.ID, EmployeeID: "e1", Date: date, Kind: attendance.EventCheckIn})
	require.NoError(t, err)
	_, err = repo.CreateLog(ctx, attendance.AttendanceLog{AttendanceID: a.ID, EmployeeID: "e1", Date: date, Kind: attendance.EventCheckIn})
	assert.ErrorIs(t, err, attendance.ErrDuplicateEvent)

	assert.ErrorIs(t, repo.Delete(ctx, a.ID), attendance.ErrHasEvents)
}

func TestRealizationSlotClaimedOnce(t *testing.T) {
	store := NewStore()
	repo := NewRealizationRepository(store)
	ctx := context.Background()
	date := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, session.SessionRealization{
				EmployeeID:    string(rune('a' + i)),
				Date:          date,
				WorkSessionID: "ws-1",
				Status:        session.StatusSubmitted,
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, session.ErrSlotAlreadyClaimed):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, len(errs)-1, conflicts)
}
