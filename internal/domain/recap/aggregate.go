package recap

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

// Build folds one employee's inputs for p into a recap. Inputs outside p are
// ignored; leaves and sessions are expected to be approved already. Session
// values use the rate carried on each realization's WorkSession. A date with
// a present record counts as present even when a leave for it is approved.
func Build(employeeID string, p period.Period, records []attendance.Attendance, leaves []leave.LeaveRequest, sessions []session.SessionRealization) MonthlyRecap {
	r := MonthlyRecap{
		EmployeeID:     employeeID,
		Period:         p,
		CodingValue:    decimal.Zero,
		NonCodingValue: decimal.Zero,
		SessionIncome:  decimal.Zero,
	}

	covered := map[string]bool{}
	for _, a := range records {
		if !p.Contains(a.Date) || a.Status != attendance.StatusPresent {
			continue
		}
		r.PresentDays++
		covered[a.Date.Format("2006-01-02")] = true
	}

	for _, l := range leaves {
		key := l.Date.Format("2006-01-02")
		if !p.Contains(l.Date) || l.Status != leave.StatusApproved || covered[key] {
			continue
		}
		switch l.Kind {
		case leave.KindLeave:
			r.LeaveDays++
		case leave.KindPermission:
			r.PermissionDays++
		case leave.KindSick:
			r.SickDays++
		}
		covered[key] = true
	}

	for _, d := range p.Weekdays() {
		if !covered[d.Format("2006-01-02")] {
			r.AbsentDays++
		}
	}

	for _, s := range sessions {
		if !p.Contains(s.Date) || s.Status != session.StatusApproved || s.WorkSession == nil {
			continue
		}
		switch s.WorkSession.Category {
		case session.CategoryCoding:
			r.CodingSessions++
			r.CodingValue = r.CodingValue.Add(s.WorkSession.Rate)
		case session.CategoryNonCoding:
			r.NonCodingSessions++
			r.NonCodingValue = r.NonCodingValue.Add(s.WorkSession.Rate)
		}
	}
	r.SessionIncome = r.CodingValue.Add(r.NonCodingValue)

	return r
}
