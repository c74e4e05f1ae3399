package recap

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
)

// snapshotCounter records how often the service asked for a snapshot read.
type snapshotCounter struct {
	*memory.Store
	snapshots int
}

func (c *snapshotCounter) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	c.snapshots++
	return c.Store.WithinSnapshot(ctx, fn)
}

type fixture struct {
	tx           *snapshotCounter
	svc          recap.RecapService
	employees    employee.EmployeeRepository
	attendance   attendance.AttendanceRepository
	leaves       leave.LeaveRequestRepository
	workSessions session.WorkSessionRepository
	realizations session.RealizationRepository
	admin        user.Actor
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	f := fixture{
		employees:    memory.NewEmployeeRepository(store),
		attendance:   memory.NewAttendanceRepository(store),
		leaves:       memory.NewLeaveRequestRepository(store),
		workSessions: memory.NewWorkSessionRepository(store),
		realizations: memory.NewRealizationRepository(store),
		admin:        user.NewActor("u-admin", "", user.RoleAdmin),
	}
	f.tx = &snapshotCounter{Store: store}
	f.svc = NewRecapService(f.tx, memory.NewRecapRepository(store), f.employees, f.attendance, f.leaves, f.realizations)
	return f
}

func (f fixture) employee(t *testing.T, name string, status employee.EmploymentStatus) employee.Employee {
	t.Helper()
	emp, err := f.employees.Create(context.Background(), employee.Employee{
		Name: name, Email: name + "@example.com",
		EmploymentType: employee.EmploymentTypePermanent, PayType: employee.PayTypeMonthly,
		EmploymentStatus: status,
	})
	require.NoError(t, err)
	return emp
}

func march(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func (f fixture) seed(t *testing.T, emp employee.Employee) {
	t.Helper()
	ctx := context.Background()

	in := march(3).Add(8 * time.Hour)
	_, err := f.attendance.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: march(3), Status: attendance.StatusPresent, CheckIn: &in, Source: attendance.SourceMobile})
	require.NoError(t, err)

	_, err = f.leaves.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: march(4), Kind: leave.KindLeave, Status: leave.StatusApproved})
	require.NoError(t, err)

	ws, err := f.workSessions.Create(ctx, session.WorkSession{
		Category: session.CategoryCoding, DayOfWeek: time.Monday, SlotNumber: 1,
		StartTime: "09:00", EndTime: "11:00", Rate: decimal.NewFromInt(150000), Active: true,
	})
	require.NoError(t, err)
	_, err = f.realizations.Create(ctx, session.SessionRealization{
		EmployeeID: emp.ID, Date: march(3), WorkSessionID: ws.ID, Status: session.StatusApproved, Source: session.SourceScheduled,
	})
	require.NoError(t, err)
}

func TestAggregate_IsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	emp := f.employee(t, "rina", employee.EmploymentStatusActive)
	f.seed(t, emp)

	req := recap.AggregateRequest{EmployeeID: emp.ID, Period: "2025-03"}
	first, err := f.svc.Aggregate(ctx, f.admin, req)
	require.NoError(t, err)
	second, err := f.svc.Aggregate(ctx, f.admin, req)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	assert.Equal(t, 1, first.PresentDays)
	assert.Equal(t, 1, first.LeaveDays)
	assert.Equal(t, 19, first.AbsentDays)
	assert.Equal(t, 1, first.CodingSessions)
	assert.Equal(t, "150000", first.SessionIncome.String())
}

func TestAggregate_ReflectsNewApprovals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	emp := f.employee(t, "rina", employee.EmploymentStatusActive)

	req := recap.AggregateRequest{EmployeeID: emp.ID, Period: "2025-03"}
	before, err := f.svc.Aggregate(ctx, f.admin, req)
	require.NoError(t, err)
	assert.Equal(t, 21, before.AbsentDays)

	_, err = f.leaves.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: march(5), Kind: leave.KindSick, Status: leave.StatusApproved})
	require.NoError(t, err)

	after, err := f.svc.Aggregate(ctx, f.admin, req)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, 1, after.SickDays)
	assert.Equal(t, 20, after.AbsentDays)
}

func TestAggregate_ReadsInputsFromOneSnapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	rina := f.employee(t, "rina", employee.EmploymentStatusActive)
	f.employee(t, "bima", employee.EmploymentStatusActive)

	_, err := f.svc.Aggregate(ctx, f.admin, recap.AggregateRequest{EmployeeID: rina.ID, Period: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.snapshots)

	_, err = f.svc.AggregateAll(ctx, f.admin, recap.AggregateAllRequest{Period: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.tx.snapshots)
}

func TestAggregate_PresentRecordOutranksApprovedLeave(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	emp := f.employee(t, "rina", employee.EmploymentStatusActive)

	in := march(4).Add(8 * time.Hour)
	_, err := f.attendance.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: march(4), Status: attendance.StatusPresent, CheckIn: &in, Source: attendance.SourceWeb})
	require.NoError(t, err)
	_, err = f.leaves.Create(ctx, leave.LeaveRequest{EmployeeID: emp.ID, Date: march(4), Kind: leave.KindLeave, Status: leave.StatusApproved})
	require.NoError(t, err)

	got, err := f.svc.Aggregate(ctx, f.admin, recap.AggregateRequest{EmployeeID: emp.ID, Period: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.PresentDays)
	assert.Zero(t, got.LeaveDays)
	assert.Equal(t, 20, got.AbsentDays)
}

func TestAggregate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	emp := f.employee(t, "rina", employee.EmploymentStatusActive)

	_, err := f.svc.Aggregate(ctx, user.NewActor("u-rina", emp.ID, user.RoleEmployee), recap.AggregateRequest{EmployeeID: emp.ID, Period: "2025-03"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.Aggregate(ctx, f.admin, recap.AggregateRequest{EmployeeID: emp.ID, Period: "03-2025"})
	assert.Error(t, err)

	_, err = f.svc.Aggregate(ctx, f.admin, recap.AggregateRequest{EmployeeID: "missing", Period: "2025-03"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAggregateAllAndExport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	rina := f.employee(t, "rina", employee.EmploymentStatusActive)
	f.employee(t, "bima", employee.EmploymentStatusActive)
	f.employee(t, "gone", employee.EmploymentStatusInactive)
	f.seed(t, rina)

	resp, err := f.svc.AggregateAll(ctx, f.admin, recap.AggregateAllRequest{Period: "2025-03"})
	require.NoError(t, err)
	assert.Len(t, resp.Recaps, 2)

	mine, err := f.svc.List(ctx, user.NewActor("u-rina", rina.ID, user.RoleEmployee), recap.RecapFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, rina.ID, mine[0].EmployeeID)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, f.admin, period.New(2025, time.March), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Recap 2025-03")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
