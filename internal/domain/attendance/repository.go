package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records and
// their event logs.
type AttendanceRepository interface {
	// Create creates a new attendance record.
	// Fails with ErrAttendanceExists when the (employee, date) key is taken.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update updates status, times, duration and note of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// Delete removes a record that has no logs
	Delete(ctx context.Context, id string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployeeBetween returns records with from <= date <= to, ordered by date
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// HasLog reports whether a log of kind exists for the employee on date
	HasLog(ctx context.Context, employeeID string, date time.Time, kind EventKind) (bool, error)

	// CreateLog appends an immutable log.
	// Fails with ErrDuplicateEvent when the (attendance, kind) key is taken.
	CreateLog(ctx context.Context, log AttendanceLog) (AttendanceLog, error)

	// ListLogs returns the logs of one record ordered by timestamp
	ListLogs(ctx context.Context, attendanceID string) ([]AttendanceLog, error)
}
