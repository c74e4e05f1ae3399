package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createEmployee(t *testing.T, db *database.DB, email string) employee.Employee {
	t.Helper()
	base := decimal.NewFromInt(12000000)
	emp, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		Name: "Rina", Email: email,
		EmploymentType: employee.EmploymentTypePermanent, PayType: employee.PayTypeMonthly,
		BaseSalary: &base, EmploymentStatus: employee.EmploymentStatusActive,
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	emp := createEmployee(t, db, "rina@example.com")

	_, err := repo.Create(ctx, employee.Employee{
		Name: "Other", Email: "RINA@example.com",
		EmploymentType: employee.EmploymentTypeContract, PayType: employee.PayTypePerSession,
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BaseSalary)
	assert.Equal(t, "12000000", got.BaseSalary.String())

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestAttendanceRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	tx := postgresql.NewTransactor(db)
	emp := createEmployee(t, db, "rina@example.com")
	day := date(2025, time.March, 3)

	in := day.Add(8*time.Hour + 45*time.Minute)
	a, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID, Date: day, Status: attendance.StatusPresent, CheckIn: &in, Source: attendance.SourceMobile,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, Status: attendance.StatusLeave, Source: attendance.SourceWeb})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	log := attendance.AttendanceLog{
		AttendanceID: a.ID, EmployeeID: emp.ID, Date: day, Kind: attendance.EventCheckIn, Timestamp: in,
		Latitude: -6.2, Longitude: 106.8, ReferenceLatitude: -6.2, ReferenceLongitude: 106.8,
		MinRadiusMeters: 50, MaxRadiusMeters: 150, WithinGeofence: true, Source: attendance.SourceMobile,
	}
	_, err = repo.CreateLog(ctx, log)
	require.NoError(t, err)
	_, err = repo.CreateLog(ctx, log)
	assert.ErrorIs(t, err, attendance.ErrDuplicateEvent)

	has, err := repo.HasLog(ctx, emp.ID, day, attendance.EventCheckIn)
	require.NoError(t, err)
	assert.True(t, has)

	// a refused delete must leave the transaction usable
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Delete(ctx, a.ID); !errors.Is(err, attendance.ErrHasEvents) {
			return err
		}
		a.Note = ptr("kept")
		return repo.Update(ctx, a)
	})
	require.NoError(t, err)

	records, err := repo.ListByEmployeeBetween(ctx, emp.ID, date(2025, time.March, 1), date(2025, time.March, 31))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Date.Equal(day))
	assert.Equal(t, "kept", *records[0].Note)
}

func TestLeaveRequestRepository_LiveUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(db)
	emp := createEmployee(t, db, "rina@example.com")
	day := date(2025, time.March, 4)

	first, err := repo.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: day, Kind: leave.KindLeave, Status: leave.StatusSubmitted})
	require.NoError(t, err)

	_, err = repo.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: day, Kind: leave.KindSick, Status: leave.StatusSubmitted})
	assert.ErrorIs(t, err, leave.ErrDuplicateLeave)

	first.Status = leave.StatusCancelled
	require.NoError(t, repo.UpdateStatus(ctx, first))

	_, err = repo.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: day, Kind: leave.KindSick, Status: leave.StatusSubmitted})
	assert.NoError(t, err)
}

func TestRealizationRepository_ConcurrentClaims(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	workSessions := postgresql.NewWorkSessionRepository(db)
	realizations := postgresql.NewRealizationRepository(db)
	tx := postgresql.NewTransactor(db)

	ws, err := workSessions.Create(ctx, session.WorkSession{
		Category: session.CategoryCoding, DayOfWeek: time.Monday, SlotNumber: 1,
		StartTime: "09:00", EndTime: "11:00", Rate: decimal.NewFromInt(150000), Active: true,
	})
	require.NoError(t, err)

	_, err = workSessions.Create(ctx, session.WorkSession{
		Category: session.CategoryCoding, DayOfWeek: time.Monday, SlotNumber: 1,
		StartTime: "13:00", EndTime: "15:00", Rate: decimal.NewFromInt(1), Active: true,
	})
	assert.ErrorIs(t, err, session.ErrWorkSessionExists)

	a := createEmployee(t, db, "a@example.com")
	b := createEmployee(t, db, "b@example.com")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, emp := range []employee.Employee{a, b} {
		wg.Add(1)
		go func(emp employee.Employee) {
			defer wg.Done()
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				_, err := realizations.Create(ctx, session.SessionRealization{
					EmployeeID: emp.ID, Date: date(2025, time.March, 3), WorkSessionID: ws.ID,
					Status: session.StatusSubmitted, Source: session.SourceScheduled,
				})
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, session.ErrSlotAlreadyClaimed):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(emp)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestRecapRepository_UpsertKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewRecapRepository(db)
	emp := createEmployee(t, db, "rina@example.com")
	march := period.New(2025, time.March)

	first, err := repo.Upsert(ctx, recap.MonthlyRecap{
		EmployeeID: emp.ID, Period: march, AbsentDays: 21,
		CodingValue: decimal.Zero, NonCodingValue: decimal.Zero, SessionIncome: decimal.Zero,
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, recap.MonthlyRecap{
		EmployeeID: emp.ID, Period: march, AbsentDays: 20, SickDays: 1,
		CodingValue: decimal.Zero, NonCodingValue: decimal.Zero, SessionIncome: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, 20, second.AbsentDays)
	assert.Equal(t, march, second.Period)

	found, err := repo.GetByEmployeeAndPeriod(ctx, emp.ID, march)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 1, found.SickDays)
}

func TestPayrollRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)
	emp := createEmployee(t, db, "rina@example.com")
	march := period.New(2025, time.March)

	rc, err := postgresql.NewRecapRepository(db).Upsert(ctx, recap.MonthlyRecap{
		EmployeeID: emp.ID, Period: march, LeaveDays: 2,
		CodingValue: decimal.NewFromInt(150000), NonCodingValue: decimal.Zero, SessionIncome: decimal.NewFromInt(150000),
	})
	require.NoError(t, err)

	p, err := payroll.Policy{StandardWorkingDays: 22}.Compute(emp, rc)
	require.NoError(t, err)
	p.CreatedBy = "u-admin"

	created, err := repo.Create(ctx, p)
	require.NoError(t, err)
	require.Len(t, created.Components, 3)

	_, err = repo.Create(ctx, p)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyGenerated)

	exists, err := repo.ExistsForPeriod(ctx, emp.ID, march)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.CreatePayment(ctx, payroll.Payment{
		PayrollID: created.ID, TransferDate: date(2025, time.April, 1), Status: payroll.PaymentStatusPending,
	})
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "11059091", loaded.Total.String())
	assert.Equal(t, payroll.ComponentBaseSalary, loaded.Components[0].Code)
	require.Len(t, loaded.Payments, 1)

	list, total, err := repo.List(ctx, payroll.PayrollFilter{Period: &march, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Components, 3)
}

func ptr[T any](v T) *T {
	return &v
}

func TestTransactor_SnapshotIgnoresConcurrentCommits(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leaves := postgresql.NewLeaveRequestRepository(db)
	emp := createEmployee(t, db, "rina@example.com")
	from, to := date(2025, time.March, 1), date(2025, time.March, 31)

	calls := 0
	err := postgresql.NewTransactor(db).WithinSnapshot(ctx, func(txCtx context.Context) error {
		calls++
		before, err := leaves.ListApprovedBetween(txCtx, emp.ID, from, to)
		require.NoError(t, err)
		assert.Empty(t, before)

		// committed on a pool connection outside the snapshot
		_, err = leaves.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: date(2025, time.March, 5), Kind: leave.KindLeave, Status: leave.StatusApproved})
		require.NoError(t, err)

		after, err := leaves.ListApprovedBetween(txCtx, emp.ID, from, to)
		require.NoError(t, err)
		assert.Empty(t, after)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	committed, err := leaves.ListApprovedBetween(ctx, emp.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, committed, 1)
}
