package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
)

type fixture struct {
	svc       session.SessionService
	employees []employee.Employee
	admin     user.Actor
	monday    session.WorkSessionResponse
}

func setup(t *testing.T, n int) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)

	f := fixture{admin: user.NewActor("u-admin", "", user.RoleAdmin)}
	for i := 0; i < n; i++ {
		emp, err := employees.Create(ctx, employee.Employee{
			Name: fmt.Sprintf("Tutor %d", i), Email: fmt.Sprintf("tutor%d@example.com", i),
			EmploymentType: employee.EmploymentTypeFreelance, PayType: employee.PayTypePerSession,
			EmploymentStatus: employee.EmploymentStatusActive,
		})
		require.NoError(t, err)
		f.employees = append(f.employees, emp)
	}

	f.svc = NewSessionService(store, memory.NewWorkSessionRepository(store), memory.NewRealizationRepository(store), employees)

	monday := 1
	ws, err := f.svc.CreateWorkSession(ctx, f.admin, session.CreateWorkSessionRequest{
		Category:   "coding",
		DayOfWeek:  &monday,
		SlotNumber: 1,
		StartTime:  "09:00",
		EndTime:    "11:00",
		Rate:       decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	f.monday = ws
	return f
}

func (f fixture) actor(i int) user.Actor {
	return user.NewActor(fmt.Sprintf("u-%d", i), f.employees[i].ID, user.RoleEmployee)
}

func (f fixture) claim(i int, date string) session.SubmitRealizationRequest {
	return session.SubmitRealizationRequest{
		EmployeeID:    f.employees[i].ID,
		Date:          date,
		WorkSessionID: f.monday.ID,
		Source:        "scheduled",
	}
}

func TestCreateWorkSession(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	assert.Equal(t, "Monday", f.monday.DayName)
	assert.True(t, f.monday.Active)

	monday := 1
	_, err := f.svc.CreateWorkSession(ctx, f.admin, session.CreateWorkSessionRequest{
		Category: "coding", DayOfWeek: &monday, SlotNumber: 1, StartTime: "13:00", EndTime: "15:00",
	})
	assert.ErrorIs(t, err, session.ErrWorkSessionExists)

	_, err = f.svc.CreateWorkSession(ctx, f.actor(0), session.CreateWorkSessionRequest{
		Category: "non_coding", DayOfWeek: &monday, SlotNumber: 2, StartTime: "13:00", EndTime: "15:00",
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.CreateWorkSession(ctx, f.admin, session.CreateWorkSessionRequest{
		Category: "non_coding", DayOfWeek: &monday, SlotNumber: 2, StartTime: "15:00", EndTime: "13:00",
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSubmit_Rules(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()

	// 2025-03-04 is a Tuesday
	_, err := f.svc.Submit(ctx, f.actor(0), f.claim(0, "2025-03-04"))
	assert.ErrorIs(t, err, session.ErrDateDayMismatch)

	resp, err := f.svc.Submit(ctx, f.actor(0), f.claim(0, "2025-03-03"))
	require.NoError(t, err)
	assert.Equal(t, "submitted", resp.Status)
	require.NotNil(t, resp.WorkSession)

	_, err = f.svc.Submit(ctx, f.actor(1), f.claim(1, "2025-03-03"))
	assert.ErrorIs(t, err, session.ErrSlotAlreadyClaimed)

	_, err = f.svc.Submit(ctx, f.actor(1), f.claim(0, "2025-03-10"))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	inactive := false
	_, err = f.svc.UpdateWorkSession(ctx, f.admin, session.UpdateWorkSessionRequest{ID: f.monday.ID, Active: &inactive})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.actor(1), f.claim(1, "2025-03-10"))
	assert.ErrorIs(t, err, session.ErrWorkSessionInactive)
}

func TestSubmit_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	const n = 8
	f := setup(t, n)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Submit(ctx, f.actor(i), f.claim(i, "2025-03-03"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestReview(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()

	claim, err := f.svc.Submit(ctx, f.actor(0), f.claim(0, "2025-03-03"))
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, f.admin, session.ReviewRequest{ID: claim.ID})
	assert.ErrorIs(t, err, session.ErrReviewNoteRequired)

	_, err = f.svc.Approve(ctx, f.actor(1), session.ReviewRequest{ID: claim.ID})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	approved, err := f.svc.Approve(ctx, f.admin, session.ReviewRequest{ID: claim.ID})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "u-admin", *approved.ApprovedBy)

	note := "duplicate"
	_, err = f.svc.Reject(ctx, f.admin, session.ReviewRequest{ID: claim.ID, Note: &note})
	assert.ErrorIs(t, err, session.ErrInvalidTransition)
}

func TestReview_RejectedFreesSlotAndSelfApprovalBlocked(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()

	claim, err := f.svc.Submit(ctx, f.actor(0), f.claim(0, "2025-03-03"))
	require.NoError(t, err)

	note := "not taught"
	_, err = f.svc.Reject(ctx, f.admin, session.ReviewRequest{ID: claim.ID, Note: &note})
	require.NoError(t, err)

	second, err := f.svc.Submit(ctx, f.actor(1), f.claim(1, "2025-03-03"))
	require.NoError(t, err)

	tutorAdmin := user.NewActor("u-1", f.employees[1].ID, user.RoleAdmin)
	_, err = f.svc.Approve(ctx, tutorAdmin, session.ReviewRequest{ID: second.ID})
	assert.ErrorIs(t, err, session.ErrSelfApproval)

	list, err := f.svc.ListRealizations(ctx, f.actor(1), session.RealizationFilter{})
	require.NoError(t, err)
	require.Len(t, list.Realizations, 1)
	assert.Equal(t, second.ID, list.Realizations[0].ID)
}
