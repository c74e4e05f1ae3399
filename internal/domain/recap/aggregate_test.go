package recap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild(t *testing.T) {
	march := period.New(2025, time.March) // 21 weekdays

	records := []attendance.Attendance{
		{Date: day(3), Status: attendance.StatusPresent},
		{Date: day(4), Status: attendance.StatusPresent},
		{Date: day(5), Status: attendance.StatusLeave},
		{Date: day(8), Status: attendance.StatusPresent}, // Saturday still counts as present
		{Date: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent},
	}
	leaves := []leave.LeaveRequest{
		{Date: day(5), Kind: leave.KindLeave, Status: leave.StatusApproved},
		{Date: day(6), Kind: leave.KindSick, Status: leave.StatusApproved},
		{Date: day(7), Kind: leave.KindPermission, Status: leave.StatusApproved},
		{Date: day(10), Kind: leave.KindLeave, Status: leave.StatusSubmitted},
	}
	coding := &session.WorkSession{Category: session.CategoryCoding, Rate: decimal.NewFromInt(50000)}
	nonCoding := &session.WorkSession{Category: session.CategoryNonCoding, Rate: decimal.NewFromInt(30000)}
	sessions := []session.SessionRealization{
		{Date: day(3), Status: session.StatusApproved, WorkSession: coding},
		{Date: day(10), Status: session.StatusApproved, WorkSession: coding},
		{Date: day(11), Status: session.StatusApproved, WorkSession: nonCoding},
		{Date: day(12), Status: session.StatusSubmitted, WorkSession: coding},
	}

	r := Build("e-1", march, records, leaves, sessions)

	assert.Equal(t, 3, r.PresentDays)
	assert.Equal(t, 1, r.LeaveDays)
	assert.Equal(t, 1, r.SickDays)
	assert.Equal(t, 1, r.PermissionDays)
	// 21 weekdays minus 3, 4 (present) and 5, 6, 7 (approved requests)
	assert.Equal(t, 16, r.AbsentDays)
	assert.Equal(t, 2, r.CodingSessions)
	assert.Equal(t, 1, r.NonCodingSessions)
	assert.Equal(t, "100000", r.CodingValue.String())
	assert.Equal(t, "30000", r.NonCodingValue.String())
	assert.Equal(t, "130000", r.SessionIncome.String())
}

func TestBuild_EmptyMonthIsAllAbsent(t *testing.T) {
	feb := period.New(2025, time.February) // 20 weekdays
	r := Build("e-1", feb, nil, nil, nil)
	assert.Equal(t, 20, r.AbsentDays)
	assert.True(t, r.SessionIncome.IsZero())
}

func TestBuild_PresentRecordOutranksApprovedLeave(t *testing.T) {
	march := period.New(2025, time.March)
	records := []attendance.Attendance{{Date: day(3), Status: attendance.StatusPresent}}
	leaves := []leave.LeaveRequest{
		{Date: day(3), Kind: leave.KindLeave, Status: leave.StatusApproved},
		{Date: day(4), Kind: leave.KindSick, Status: leave.StatusApproved},
	}

	r := Build("e-1", march, records, leaves, nil)

	assert.Equal(t, 1, r.PresentDays)
	assert.Zero(t, r.LeaveDays)
	assert.Equal(t, 1, r.SickDays)
	assert.Equal(t, 19, r.AbsentDays)
	assert.Equal(t, 21, r.PresentDays+r.LeaveDays+r.SickDays+r.PermissionDays+r.AbsentDays)
}
