package attendance

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Recording errors
	ErrDuplicateEvent   = apperror.Conflict("DUPLICATE_EVENT", "this attendance event has already been recorded for the date")
	ErrEmployeeOnLeave  = apperror.State("EMPLOYEE_ON_LEAVE", "employee is on leave for this date")
	ErrNoCheckInFound   = apperror.State("NO_CHECK_IN_FOUND", "no check-in found for this date")
	ErrEventOutsideDate = apperror.Validation("EVENT_OUTSIDE_DATE", "event time is more than one day away from the attendance date")
	ErrCheckOutTooLate  = apperror.Validation("CHECK_OUT_TOO_LATE", "check-out must be within 24 hours of check-in")

	// Persistence errors
	ErrAttendanceExists   = apperror.Conflict("ATTENDANCE_EXISTS", "attendance record already exists for this date")
	ErrAttendanceNotFound = apperror.NotFound("ATTENDANCE_NOT_FOUND", "attendance record not found")
	ErrHasEvents          = apperror.State("ATTENDANCE_HAS_EVENTS", "attendance record has recorded events")
)
