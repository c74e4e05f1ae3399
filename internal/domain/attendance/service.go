package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// RecordEvent records a geofence-checked check-in or check-out
	RecordEvent(ctx context.Context, actor user.Actor, req RecordEventRequest) (RecordEventResponse, error)

	// SetStatus changes the status of a record administratively
	SetStatus(ctx context.Context, actor user.Actor, req SetStatusRequest) (AttendanceResponse, error)

	// GetRecord retrieves a single record with its logs
	GetRecord(ctx context.Context, actor user.Actor, id string) (AttendanceResponse, error)

	// ListRecords retrieves records with filters
	ListRecords(ctx context.Context, actor user.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)
}

// LeaveMarker is the attendance side of leave approval. Calls are expected to
// run inside the caller's transaction.
type LeaveMarker interface {
	// MarkLeave sets the employee's record for date to leave, creating it if needed
	MarkLeave(ctx context.Context, employeeID string, date time.Time) error

	// ClearLeave removes a leave-status record for date, if any
	ClearLeave(ctx context.Context, employeeID string, date time.Time) error
}
